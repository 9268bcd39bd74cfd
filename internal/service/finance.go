package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ivanoskov/finance_app/internal/model"
	"github.com/ivanoskov/finance_app/internal/repository"
)

// defaultWindowDays is the trailing filter applied when a request carries no
// explicit day count.
const defaultWindowDays = 30

// Repository defines the storage operations the service needs.
type Repository interface {
	CreateProduct(ctx context.Context, p *model.Product) error
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	CreateExpense(ctx context.Context, e *model.Expense) error
	ListExpenses(ctx context.Context, since time.Time) ([]model.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	SumExpenses(ctx context.Context, from, to time.Time) (float64, error)
	ExpensesByCategory(ctx context.Context, since time.Time) (map[string]float64, error)
	TopExpenses(ctx context.Context, since time.Time, limit int) ([]model.Expense, error)

	CreateIncome(ctx context.Context, in *model.Income) error
	ListIncome(ctx context.Context, since time.Time) ([]model.Income, error)
	DeleteIncome(ctx context.Context, id int64) error
	SumIncome(ctx context.Context, from, to time.Time) (float64, error)
	IncomeBySource(ctx context.Context, since time.Time) (map[string]float64, error)
	TopIncome(ctx context.Context, since time.Time, limit int) ([]model.Income, error)

	AddCartItem(ctx context.Context, item *model.CartItem) error
	ListCart(ctx context.Context) ([]model.CartLine, error)
	DeleteCartItem(ctx context.Context, id int64) error
	Checkout(ctx context.Context) (model.Transaction, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
}

// ProductCache is an optional read cache for the unfiltered product list.
// Implementations must be safe for concurrent use.
type ProductCache interface {
	GetProducts(ctx context.Context) ([]model.Product, bool)
	SetProducts(ctx context.Context, products []model.Product)
	Invalidate(ctx context.Context)
}

// ValidationError marks input that fails semantic checks (missing fields,
// negative amounts, references to unknown products).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// FinanceService implements the domain operations on top of a Repository.
type FinanceService struct {
	repo  Repository
	cache ProductCache
}

// New creates a FinanceService. cache may be nil to disable product caching.
func New(repo Repository, cache ProductCache) *FinanceService {
	return &FinanceService{
		repo:  repo,
		cache: cache,
	}
}

// ProductInput carries the writable product fields.
type ProductInput struct {
	Name        string
	Price       float64
	Quantity    int
	Category    string
	Description string
}

func (in *ProductInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return validationf("name is required")
	}
	if in.Price < 0 {
		return validationf("price must not be negative")
	}
	if in.Quantity < 0 {
		return validationf("quantity must not be negative")
	}
	if strings.TrimSpace(in.Category) == "" {
		in.Category = "General"
	}
	return nil
}

func (s *FinanceService) CreateProduct(ctx context.Context, in ProductInput) (model.Product, error) {
	if err := in.normalize(); err != nil {
		return model.Product{}, err
	}

	p := model.Product{
		Name:        in.Name,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Category:    in.Category,
		Description: in.Description,
	}
	if err := s.repo.CreateProduct(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return model.Product{}, validationf("product %q already exists", in.Name)
		}
		return model.Product{}, err
	}

	s.invalidateProducts(ctx)
	return p, nil
}

func (s *FinanceService) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *FinanceService) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	unfiltered := filter.Category == "" && filter.Search == ""
	if unfiltered && s.cache != nil {
		if products, ok := s.cache.GetProducts(ctx); ok {
			return products, nil
		}
	}

	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	if unfiltered && s.cache != nil {
		s.cache.SetProducts(ctx, products)
	}
	return products, nil
}

// UpdateProduct replaces every writable field of the product.
func (s *FinanceService) UpdateProduct(ctx context.Context, id int64, in ProductInput) (model.Product, error) {
	if err := in.normalize(); err != nil {
		return model.Product{}, err
	}

	p := model.Product{
		ID:          id,
		Name:        in.Name,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Category:    in.Category,
		Description: in.Description,
	}
	if err := s.repo.UpdateProduct(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return model.Product{}, validationf("product %q already exists", in.Name)
		}
		return model.Product{}, err
	}

	s.invalidateProducts(ctx)
	return s.repo.GetProduct(ctx, id)
}

func (s *FinanceService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidateProducts(ctx)
	return nil
}

// ExpenseInput carries the writable expense fields. A zero Date means "now".
type ExpenseInput struct {
	Category      string
	Amount        float64
	Description   string
	PaymentMethod string
	Date          time.Time
}

func (s *FinanceService) CreateExpense(ctx context.Context, in ExpenseInput) (model.Expense, error) {
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		return model.Expense{}, validationf("category is required")
	}
	if in.Amount <= 0 {
		return model.Expense{}, validationf("amount must be greater than zero")
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		in.PaymentMethod = "cash"
	}

	e := model.Expense{
		Category:      in.Category,
		Amount:        in.Amount,
		Description:   in.Description,
		Date:          in.Date,
		PaymentMethod: in.PaymentMethod,
	}
	if err := s.repo.CreateExpense(ctx, &e); err != nil {
		return model.Expense{}, err
	}
	return e, nil
}

// ListExpenses returns expenses within the trailing window. days <= 0 falls
// back to the default window.
func (s *FinanceService) ListExpenses(ctx context.Context, days int) ([]model.Expense, error) {
	return s.repo.ListExpenses(ctx, windowStart(days))
}

func (s *FinanceService) DeleteExpense(ctx context.Context, id int64) error {
	return s.repo.DeleteExpense(ctx, id)
}

// IncomeInput carries the writable income fields. A zero Date means "now".
type IncomeInput struct {
	Source      string
	Amount      float64
	Description string
	IncomeType  string
	Date        time.Time
}

func (s *FinanceService) CreateIncome(ctx context.Context, in IncomeInput) (model.Income, error) {
	in.Source = strings.TrimSpace(in.Source)
	if in.Source == "" {
		return model.Income{}, validationf("source is required")
	}
	if in.Amount <= 0 {
		return model.Income{}, validationf("amount must be greater than zero")
	}
	if strings.TrimSpace(in.IncomeType) == "" {
		in.IncomeType = "regular"
	}

	rec := model.Income{
		Source:      in.Source,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        in.Date,
		IncomeType:  in.IncomeType,
	}
	if err := s.repo.CreateIncome(ctx, &rec); err != nil {
		return model.Income{}, err
	}
	return rec, nil
}

func (s *FinanceService) ListIncome(ctx context.Context, days int) ([]model.Income, error) {
	return s.repo.ListIncome(ctx, windowStart(days))
}

func (s *FinanceService) DeleteIncome(ctx context.Context, id int64) error {
	return s.repo.DeleteIncome(ctx, id)
}

// AddToCart validates the product reference, snapshots the current price and
// stores the cart line. The snapshot is what checkout will charge even if the
// product price changes afterwards.
func (s *FinanceService) AddToCart(ctx context.Context, productID int64, quantity int) (model.CartItem, error) {
	if quantity < 1 {
		return model.CartItem{}, validationf("quantity must be at least 1")
	}

	product, err := s.repo.GetProduct(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.CartItem{}, validationf("product %d not found", productID)
	}
	if err != nil {
		return model.CartItem{}, err
	}
	if product.Quantity < quantity {
		return model.CartItem{}, &repository.InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: product.Quantity,
		}
	}

	item := model.CartItem{
		ProductID:       productID,
		Quantity:        quantity,
		PriceAtPurchase: product.Price,
	}
	if err := s.repo.AddCartItem(ctx, &item); err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

func (s *FinanceService) ListCart(ctx context.Context) ([]model.CartLine, error) {
	return s.repo.ListCart(ctx)
}

func (s *FinanceService) CartSummary(ctx context.Context) (model.CartSummary, error) {
	lines, err := s.repo.ListCart(ctx)
	if err != nil {
		return model.CartSummary{}, err
	}

	summary := model.CartSummary{Items: lines, ItemCount: len(lines)}
	var total float64
	for _, line := range lines {
		summary.TotalQuantity += line.Quantity
		total += line.TotalPrice
	}
	summary.TotalPrice = round2(total)
	return summary, nil
}

func (s *FinanceService) RemoveFromCart(ctx context.Context, id int64) error {
	return s.repo.DeleteCartItem(ctx, id)
}

// Checkout converts the whole cart into one transaction, all-or-nothing. An
// empty cart is a validation error; an overdrawn line surfaces as
// InsufficientStockError and leaves every product untouched.
func (s *FinanceService) Checkout(ctx context.Context) (model.Transaction, error) {
	txn, err := s.repo.Checkout(ctx)
	if errors.Is(err, repository.ErrEmptyCart) {
		return model.Transaction{}, validationf("cart is empty")
	}
	if err != nil {
		return model.Transaction{}, err
	}

	s.invalidateProducts(ctx)
	return txn, nil
}

func (s *FinanceService) invalidateProducts(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// windowStart translates a trailing day count into the window's lower bound.
func windowStart(days int) time.Time {
	if days <= 0 {
		days = defaultWindowDays
	}
	return time.Now().AddDate(0, 0, -days)
}
