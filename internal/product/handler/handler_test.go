package handler

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/abgdnv/inventory/internal/product/service"
	"github.com/abgdnv/inventory/internal/product/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore is a ProductStore whose saves always fail.
type failingStore struct {
	products []store.Product
}

func (f *failingStore) Load() ([]store.Product, error) {
	return append([]store.Product(nil), f.products...), nil
}

func (f *failingStore) SaveAll(_ []store.Product) error {
	return errors.New("disk full")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, productStore store.ProductStore) *service.Inventory {
	t.Helper()
	svc := service.NewService(productStore, discardLogger())
	require.NoError(t, svc.Load())
	return svc
}

// runCommand executes one console command against input and returns what was printed.
func runCommand(t *testing.T, svc service.ProductService, input string, cmd func(*Console) error) string {
	t.Helper()
	var out strings.Builder
	console := NewConsole(svc, strings.NewReader(input), &out, discardLogger())
	require.NoError(t, cmd(console))
	return out.String()
}

func product(id int, name, category string, quantity int, price string) store.Product {
	return store.Product{ID: id, Name: name, Category: category, Quantity: quantity, Price: decimal.RequireFromString(price)}
}

func Test_Console_List(t *testing.T) {
	testCases := []struct {
		name     string
		products []store.Product
		expected string
	}{
		{
			name:     "Empty inventory",
			expected: "\n--- Inventory List ---\nNo products found.\n",
		},
		{
			name: "Products in load order with two decimal prices",
			products: []store.Product{
				product(7, "Red Gadget", "Toys", 1, "10"),
				product(3, "Blue Widget", "Hardware", 25, "2.5"),
			},
			expected: "\n--- Inventory List ---\n" +
				"ID    Name                     Category       Qty       Price\n" +
				"    " + strings.Repeat("-", 70) + "\n" +
				"7     Red Gadget               Toys           1         10.00\n" +
				"3     Blue Widget              Hardware       25        2.50\n",
		},
		{
			name:     "Columns padded by characters",
			products: []store.Product{product(2, "Café", "Drinks", 4, "3.2")},
			expected: "\n--- Inventory List ---\n" +
				"ID    Name                     Category       Qty       Price\n" +
				"    " + strings.Repeat("-", 70) + "\n" +
				"2     Café                     Drinks         4         3.20\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			memStore := store.NewInMemoryStore(tc.products...)
			svc := newTestService(t, memStore)
			// when
			out := runCommand(t, svc, "", (*Console).List)
			// then
			assert.Equal(t, tc.expected, out)
			assert.Equal(t, 0, memStore.Saves())
		})
	}
}

func Test_Console_Add(t *testing.T) {
	// given
	memStore := store.NewInMemoryStore()
	svc := newTestService(t, memStore)
	// when
	out := runCommand(t, svc, "Widget\nHardware\n10\n2.50\n", (*Console).Add)
	// then
	assert.Contains(t, out, "Product added successfully. ID = 1")
	saved, err := memStore.Load()
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Widget", saved[0].Name)
	assert.Equal(t, "Hardware", saved[0].Category)
	assert.Equal(t, 10, saved[0].Quantity)
	assert.Equal(t, "2.5", saved[0].Price.String())
}

func Test_Console_Add_RepromptsInvalidNumbers(t *testing.T) {
	// given
	memStore := store.NewInMemoryStore(product(4, "Old", "x", 1, "1"))
	svc := newTestService(t, memStore)
	// when
	out := runCommand(t, svc, "Bolt\nHardware\nmany\n-2\n3\nfree\n-1\n0.25\n", (*Console).Add)
	// then
	assert.Equal(t, 2, strings.Count(out, "Enter a valid non-negative integer for quantity: "))
	assert.Equal(t, 2, strings.Count(out, "Enter a valid non-negative number for price: "))
	assert.Contains(t, out, "Product added successfully. ID = 5")
	found, err := svc.FindByID(5)
	require.NoError(t, err)
	assert.Equal(t, 3, found.Quantity)
	assert.Equal(t, "0.25", found.Price.String())
}

func Test_Console_Add_SaveFailure(t *testing.T) {
	// given
	svc := newTestService(t, &failingStore{})
	// when
	out := runCommand(t, svc, "Widget\nHardware\n1\n1\n", (*Console).Add)
	// then
	assert.Contains(t, out, "Error: could not save record.")
	assert.Len(t, svc.FindAll(), 1, "in-memory product is kept")
}

func Test_Console_Add_EndOfInput(t *testing.T) {
	// given
	svc := newTestService(t, store.NewInMemoryStore())
	console := NewConsole(svc, strings.NewReader("Widget\nHardware\n"), io.Discard, discardLogger())
	// when
	err := console.Add()
	// then
	assert.ErrorIs(t, err, io.EOF)
	assert.Empty(t, svc.FindAll())
}

func Test_Console_SearchByID(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Found",
			input:    "3\n",
			expected: "\nFound:\nID: 3\nName: Blue Widget\nCategory: Hardware\nQuantity: 5\nPrice: 2.5\n",
		},
		{name: "Not found", input: "9\n", expected: "Product with ID 9 not found.\n"},
		{name: "Non-numeric input", input: "abc\n", expected: "Invalid input.\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			memStore := store.NewInMemoryStore(product(3, "Blue Widget", "Hardware", 5, "2.5"))
			svc := newTestService(t, memStore)
			// when
			out := runCommand(t, svc, tc.input, (*Console).SearchByID)
			// then
			assert.True(t, strings.HasSuffix(out, tc.expected), "output: %q", out)
			assert.Equal(t, 0, memStore.Saves())
		})
	}
}

func Test_Console_SearchByName(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		expectIDs  []string
		expectNone bool
	}{
		{name: "Lower case", input: "widget\n", expectIDs: []string{"3     Blue Widget"}},
		{name: "Upper case", input: "WIDGET\n", expectIDs: []string{"3     Blue Widget"}},
		{name: "No matches", input: "sprocket\n", expectNone: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			memStore := store.NewInMemoryStore(
				product(3, "Blue Widget", "Hardware", 5, "2.5"),
				product(7, "Red Gadget", "Toys", 1, "10"),
			)
			svc := newTestService(t, memStore)
			// when
			out := runCommand(t, svc, tc.input, (*Console).SearchByName)
			// then
			if tc.expectNone {
				assert.Contains(t, out, "No matching products found.")
				assert.NotContains(t, out, "Matches:")
				return
			}
			assert.Contains(t, out, "Matches:")
			for _, row := range tc.expectIDs {
				assert.Contains(t, out, row)
			}
			assert.NotContains(t, out, "Red Gadget")
			assert.Equal(t, 0, memStore.Saves())
		})
	}
}

func Test_Console_Update(t *testing.T) {
	testCases := []struct {
		name           string
		input          string
		expectMessage  string
		expectName     string
		expectCategory string
		expectQuantity int
		expectPrice    string
	}{
		{
			name:           "Blank and -1 keep current values",
			input:          "3\n\nNewCat\n-1\n-1\n",
			expectMessage:  "Product updated.",
			expectName:     "Blue Widget",
			expectCategory: "NewCat",
			expectQuantity: 5,
			expectPrice:    "2.5",
		},
		{
			name:           "All values replaced",
			input:          "3\nGreen Widget\nGarden\n0\n4.75\n",
			expectMessage:  "Product updated.",
			expectName:     "Green Widget",
			expectCategory: "Garden",
			expectQuantity: 0,
			expectPrice:    "4.75",
		},
		{
			name:           "Non-numeric numbers keep current values",
			input:          "3\n\n\nlots\ncheap\n",
			expectMessage:  "Product updated.",
			expectName:     "Blue Widget",
			expectCategory: "Hardware",
			expectQuantity: 5,
			expectPrice:    "2.5",
		},
		{
			name:           "Not found",
			input:          "8\n",
			expectMessage:  "Product not found.",
			expectName:     "Blue Widget",
			expectCategory: "Hardware",
			expectQuantity: 5,
			expectPrice:    "2.5",
		},
		{
			name:           "Non-numeric id",
			input:          "x\n",
			expectMessage:  "Invalid input.",
			expectName:     "Blue Widget",
			expectCategory: "Hardware",
			expectQuantity: 5,
			expectPrice:    "2.5",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := newTestService(t, store.NewInMemoryStore(product(3, "Blue Widget", "Hardware", 5, "2.5")))
			// when
			out := runCommand(t, svc, tc.input, (*Console).Update)
			// then
			assert.Contains(t, out, tc.expectMessage)
			found, err := svc.FindByID(3)
			require.NoError(t, err)
			assert.Equal(t, tc.expectName, found.Name)
			assert.Equal(t, tc.expectCategory, found.Category)
			assert.Equal(t, tc.expectQuantity, found.Quantity)
			assert.Equal(t, tc.expectPrice, found.Price.String())
		})
	}
}

func Test_Console_Sell(t *testing.T) {
	// given
	memStore := store.NewInMemoryStore(product(1, "Widget", "Hardware", 1, "1"))
	svc := newTestService(t, memStore)

	// when
	first := runCommand(t, svc, "1\n", (*Console).Sell)
	second := runCommand(t, svc, "1\n", (*Console).Sell)
	missing := runCommand(t, svc, "2\n", (*Console).Sell)
	invalid := runCommand(t, svc, "one\n", (*Console).Sell)

	// then
	assert.Contains(t, first, "Enter Product ID to sell: ")
	assert.Contains(t, first, "sell successful. New qty: 0")
	assert.Contains(t, second, "Not enough stock. Current qty: 0")
	assert.Contains(t, missing, "Product not found.")
	assert.Contains(t, invalid, "Invalid input.")
	assert.Equal(t, 1, memStore.Saves(), "only the successful sell saves")
}

func Test_Console_Restock(t *testing.T) {
	testCases := []struct {
		name           string
		input          string
		expectMessage  string
		expectQuantity int
		expectIDPrompt bool
	}{
		{name: "Success", input: "5\n1\n", expectMessage: "Restocked successfully.", expectQuantity: 7, expectIDPrompt: true},
		{name: "Zero amount", input: "0\n", expectMessage: "Invalid amount.", expectQuantity: 2},
		{name: "Negative amount", input: "-4\n", expectMessage: "Invalid amount.", expectQuantity: 2},
		{name: "Non-numeric amount", input: "some\n", expectMessage: "Invalid amount.", expectQuantity: 2},
		{name: "Non-numeric id", input: "5\nfirst\n", expectMessage: "Invalid ID.", expectQuantity: 2, expectIDPrompt: true},
		{name: "Not found", input: "5\n9\n", expectMessage: "Product not found.", expectQuantity: 2, expectIDPrompt: true},
		{name: "Amount past the largest quantity", input: strconv.Itoa(math.MaxInt) + "\n1\n", expectMessage: "Invalid amount.", expectQuantity: 2, expectIDPrompt: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := newTestService(t, store.NewInMemoryStore(product(1, "Widget", "Hardware", 2, "1")))
			// when
			out := runCommand(t, svc, tc.input, (*Console).Restock)
			// then
			assert.Contains(t, out, tc.expectMessage)
			assert.Equal(t, tc.expectIDPrompt, strings.Contains(out, "Enter Product ID to restock: "))
			found, err := svc.FindByID(1)
			require.NoError(t, err)
			assert.Equal(t, tc.expectQuantity, found.Quantity)
		})
	}
}

func Test_Console_Delete(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectMessage string
		expectCount   int
	}{
		{name: "Success", input: "1\n", expectMessage: "Product deleted.", expectCount: 1},
		{name: "Not found", input: "5\n", expectMessage: "Product not found.", expectCount: 2},
		{name: "Non-numeric id", input: "?\n", expectMessage: "Invalid input.", expectCount: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := newTestService(t, store.NewInMemoryStore(
				product(1, "Widget", "Hardware", 2, "1"),
				product(2, "Gadget", "Toys", 2, "1"),
			))
			// when
			out := runCommand(t, svc, tc.input, (*Console).Delete)
			// then
			assert.Contains(t, out, tc.expectMessage)
			assert.Len(t, svc.FindAll(), tc.expectCount)
		})
	}
}

func Test_Console_SaveFailure_ReportsError(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		cmd   func(*Console) error
	}{
		{name: "Update", input: "1\nNew\n\n-1\n-1\n", cmd: (*Console).Update},
		{name: "Restock", input: "1\n1\n", cmd: (*Console).Restock},
		{name: "Delete", input: "1\n", cmd: (*Console).Delete},
		{name: "Sell", input: "1\n", cmd: (*Console).Sell},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := newTestService(t, &failingStore{products: []store.Product{product(1, "Widget", "Hardware", 2, "1")}})
			// when
			out := runCommand(t, svc, tc.input, tc.cmd)
			// then
			assert.Contains(t, out, "Error saving.")
		})
	}
}
