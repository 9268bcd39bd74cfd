package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ivanoskov/finance_app/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "finance.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateProduct(t *testing.T, store *Store, name string, price float64, quantity int, category string) model.Product {
	t.Helper()

	p := model.Product{Name: name, Price: price, Quantity: quantity, Category: category}
	if err := store.CreateProduct(context.Background(), &p); err != nil {
		t.Fatalf("create product %q: %v", name, err)
	}
	return p
}

func TestProductCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := mustCreateProduct(t, store, "Milk", 3.50, 10, "Groceries")
	if created.ID == 0 {
		t.Fatal("expected product id to be assigned")
	}

	got, err := store.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Name != "Milk" || got.Price != 3.50 || got.Quantity != 10 {
		t.Fatalf("unexpected product: %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	got.Price = 4.00
	got.Quantity = 8
	if err := store.UpdateProduct(ctx, &got); err != nil {
		t.Fatalf("update product: %v", err)
	}
	updated, err := store.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("get updated product: %v", err)
	}
	if updated.Price != 4.00 || updated.Quantity != 8 {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := store.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, err := store.GetProduct(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteProduct(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestProductDuplicateName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustCreateProduct(t, store, "Coffee", 12, 5, "Groceries")

	dup := model.Product{Name: "Coffee", Price: 9, Quantity: 1, Category: "Groceries"}
	if err := store.CreateProduct(ctx, &dup); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestProductFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustCreateProduct(t, store, "Laptop", 1200, 3, "Electronics")
	mustCreateProduct(t, store, "Desk Lamp", 25, 7, "Furniture")
	mustCreateProduct(t, store, "Monitor", 300, 4, "Electronics")

	electronics, err := store.ListProducts(ctx, model.ProductFilter{Category: "Electronics"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(electronics) != 2 {
		t.Fatalf("expected 2 electronics, got %d", len(electronics))
	}

	matches, err := store.ListProducts(ctx, model.ProductFilter{Search: "lamp"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "Desk Lamp" {
		t.Fatalf("unexpected search result: %+v", matches)
	}

	all, err := store.ListProducts(ctx, model.ProductFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 products, got %d", len(all))
	}
}

func TestExpenseWindowAndSums(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := model.Expense{Category: "Rent", Amount: 900, Date: time.Now().AddDate(0, 0, -40)}
	if err := store.CreateExpense(ctx, &old); err != nil {
		t.Fatalf("create old expense: %v", err)
	}
	recent := model.Expense{Category: "Food", Amount: 120.50}
	if err := store.CreateExpense(ctx, &recent); err != nil {
		t.Fatalf("create recent expense: %v", err)
	}

	within, err := store.ListExpenses(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(within) != 1 || within[0].Category != "Food" {
		t.Fatalf("expected only the recent expense, got %+v", within)
	}

	all, err := store.ListExpenses(ctx, time.Time{})
	if err != nil {
		t.Fatalf("list all expenses: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(all))
	}

	sum, err := store.SumExpenses(ctx, time.Now().AddDate(0, 0, -30), time.Time{})
	if err != nil {
		t.Fatalf("sum expenses: %v", err)
	}
	if sum != 120.50 {
		t.Fatalf("expected windowed sum 120.50, got %v", sum)
	}

	byCategory, err := store.ExpensesByCategory(ctx, time.Time{})
	if err != nil {
		t.Fatalf("expenses by category: %v", err)
	}
	if byCategory["Rent"] != 900 || byCategory["Food"] != 120.50 {
		t.Fatalf("unexpected breakdown: %+v", byCategory)
	}
}

func TestIncomeWindowAndSums(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	salary := model.Income{Source: "Salary", Amount: 50000}
	if err := store.CreateIncome(ctx, &salary); err != nil {
		t.Fatalf("create income: %v", err)
	}
	side := model.Income{Source: "Freelance", Amount: 1500, Date: time.Now().AddDate(0, 0, -45)}
	if err := store.CreateIncome(ctx, &side); err != nil {
		t.Fatalf("create old income: %v", err)
	}

	sum, err := store.SumIncome(ctx, time.Now().AddDate(0, 0, -30), time.Time{})
	if err != nil {
		t.Fatalf("sum income: %v", err)
	}
	if sum != 50000 {
		t.Fatalf("expected windowed sum 50000, got %v", sum)
	}

	bySource, err := store.IncomeBySource(ctx, time.Time{})
	if err != nil {
		t.Fatalf("income by source: %v", err)
	}
	if bySource["Salary"] != 50000 || bySource["Freelance"] != 1500 {
		t.Fatalf("unexpected breakdown: %+v", bySource)
	}
}

func TestCheckout(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	product := mustCreateProduct(t, store, "Keyboard", 200, 50, "Electronics")

	item := model.CartItem{ProductID: product.ID, Quantity: 3, PriceAtPurchase: product.Price}
	if err := store.AddCartItem(ctx, &item); err != nil {
		t.Fatalf("add cart item: %v", err)
	}

	txn, err := store.Checkout(ctx)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if txn.TotalAmount != 600 {
		t.Fatalf("expected total 600, got %v", txn.TotalAmount)
	}
	if txn.ItemsCount != 1 || txn.TransactionType != "purchase" {
		t.Fatalf("unexpected transaction: %+v", txn)
	}

	got, err := store.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product after checkout: %v", err)
	}
	if got.Quantity != 47 {
		t.Fatalf("expected stock 47 after checkout, got %d", got.Quantity)
	}

	lines, err := store.ListCart(ctx)
	if err != nil {
		t.Fatalf("list cart: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart after checkout, got %d lines", len(lines))
	}

	txns, err := store.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txns) != 1 || txns[0].ID != txn.ID {
		t.Fatalf("expected the checkout transaction, got %+v", txns)
	}
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	plenty := mustCreateProduct(t, store, "Pens", 2, 100, "Office")
	scarce := mustCreateProduct(t, store, "Chairs", 80, 1, "Office")

	first := model.CartItem{ProductID: plenty.ID, Quantity: 10, PriceAtPurchase: plenty.Price}
	if err := store.AddCartItem(ctx, &first); err != nil {
		t.Fatalf("add first item: %v", err)
	}
	second := model.CartItem{ProductID: scarce.ID, Quantity: 2, PriceAtPurchase: scarce.Price}
	if err := store.AddCartItem(ctx, &second); err != nil {
		t.Fatalf("add second item: %v", err)
	}

	_, err := store.Checkout(ctx)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.ProductID != scarce.ID || stockErr.Requested != 2 || stockErr.Available != 1 {
		t.Fatalf("unexpected stock error: %+v", stockErr)
	}

	// The first line's decrement must have rolled back with the rest.
	got, err := store.GetProduct(ctx, plenty.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Quantity != 100 {
		t.Fatalf("expected stock 100 after rollback, got %d", got.Quantity)
	}

	lines, err := store.ListCart(ctx)
	if err != nil {
		t.Fatalf("list cart: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected cart to survive failed checkout, got %d lines", len(lines))
	}

	txns, err := store.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("expected no transactions after failed checkout, got %d", len(txns))
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Checkout(context.Background()); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestDeleteProductCascadesCart(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	product := mustCreateProduct(t, store, "Notebook", 5, 20, "Office")
	item := model.CartItem{ProductID: product.ID, Quantity: 2, PriceAtPurchase: product.Price}
	if err := store.AddCartItem(ctx, &item); err != nil {
		t.Fatalf("add cart item: %v", err)
	}

	if err := store.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	lines, err := store.ListCart(ctx)
	if err != nil {
		t.Fatalf("list cart: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected cart line removed with its product, got %d lines", len(lines))
	}
}

func TestTopExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	amounts := []float64{10, 500, 70, 230, 45, 90}
	for _, amount := range amounts {
		e := model.Expense{Category: "Misc", Amount: amount}
		if err := store.CreateExpense(ctx, &e); err != nil {
			t.Fatalf("create expense: %v", err)
		}
	}

	top, err := store.TopExpenses(ctx, time.Time{}, 3)
	if err != nil {
		t.Fatalf("top expenses: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 expenses, got %d", len(top))
	}
	if top[0].Amount != 500 || top[1].Amount != 230 || top[2].Amount != 90 {
		t.Fatalf("unexpected ordering: %+v", top)
	}
}
