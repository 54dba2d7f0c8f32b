// Package handler provides the interactive console commands for product operations.
package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	perrors "github.com/abgdnv/inventory/internal/product/errors"
	"github.com/abgdnv/inventory/internal/product/service"
	"github.com/shopspring/decimal"
)

// sellDelta is how much a single sell removes from stock.
const sellDelta = -1

// keepPrice leaves the price untouched on update.
var keepPrice = decimal.NewFromInt(-1)

// ProductConsole defines the console commands for product-related menu entries.
// Each command returns an error only when input can no longer be read.
type ProductConsole interface {
	Add() error
	List() error
	SearchByID() error
	SearchByName() error
	Update() error
	Sell() error
	Restock() error
	Delete() error
}

// Console implements ProductConsole on a line-oriented reader and writer.
type Console struct {
	service service.ProductService
	prompt  *prompter
	out     io.Writer
	logger  *slog.Logger
}

// NewConsole creates a new Console reading answers from in and writing to out.
func NewConsole(service service.ProductService, in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	return &Console{
		service: service,
		prompt:  newPrompter(in, out),
		out:     out,
		logger:  logger.With("component", "console"),
	}
}

// Add asks for a new product, repeating the quantity and price questions until they are valid.
func (c *Console) Add() error {
	c.println("\n--- Add New Product ---")
	name, err := c.prompt.ask("Product name: ")
	if err != nil {
		return err
	}
	category, err := c.prompt.ask("Category: ")
	if err != nil {
		return err
	}
	quantity, err := c.prompt.askNonNegativeInt("Quantity: ", "Enter a valid non-negative integer for quantity: ")
	if err != nil {
		return err
	}
	price, err := c.prompt.askNonNegativeDecimal("Price: ", "Enter a valid non-negative number for price: ")
	if err != nil {
		return err
	}

	created, err := c.service.Create(service.ProductCreateDto{
		Name:     name,
		Category: category,
		Quantity: quantity,
		Price:    price,
	})
	switch {
	case err == nil:
		c.printf("Product added successfully. ID = %d\n", created.ID)
	case errors.Is(err, perrors.ErrSaveFailed):
		c.println("Error: could not save record.")
	default:
		c.logger.Error("Error creating product", "error", err)
		c.println("Error: could not add product.")
	}
	return nil
}

// List prints every product as a table.
func (c *Console) List() error {
	c.println("\n--- Inventory List ---")
	products := c.service.FindAll()
	if len(products) == 0 {
		c.println("No products found.")
		return nil
	}
	c.printTable(products)
	return nil
}

// SearchByID prints the product with the entered ID.
func (c *Console) SearchByID() error {
	id, ok, err := c.prompt.askInt("\nEnter Product ID to search: ")
	if err != nil {
		return err
	}
	if !ok {
		c.println("Invalid input.")
		return nil
	}

	found, err := c.service.FindByID(id)
	if err != nil {
		c.printf("Product with ID %d not found.\n", id)
		return nil
	}
	c.printf("\nFound:\nID: %d\nName: %s\nCategory: %s\nQuantity: %d\nPrice: %s\n",
		found.ID, found.Name, found.Category, found.Quantity, found.Price.String())
	return nil
}

// SearchByName prints every product whose name contains the entered text, ignoring case.
func (c *Console) SearchByName() error {
	query, err := c.prompt.ask("\nEnter name or substring to search: ")
	if err != nil {
		return err
	}

	matches := c.service.SearchByName(query)
	if len(matches) == 0 {
		c.println("No matching products found.")
		return nil
	}
	c.println("\nMatches:")
	c.printTable(matches)
	return nil
}

// Update edits a product. A blank answer keeps a text field; -1 (or any invalid number) keeps a numeric one.
func (c *Console) Update() error {
	id, ok, err := c.prompt.askInt("\nEnter Product ID to update: ")
	if err != nil {
		return err
	}
	if !ok {
		c.println("Invalid input.")
		return nil
	}
	current, err := c.service.FindByID(id)
	if err != nil {
		c.println("Product not found.")
		return nil
	}

	c.println("\nEditing product (leave blank to keep current)")
	update := service.ProductUpdateDto{Quantity: -1, Price: keepPrice}
	if update.Name, err = c.prompt.ask(fmt.Sprintf("Current name: %s\nNew name: ", current.Name)); err != nil {
		return err
	}
	if update.Category, err = c.prompt.ask(fmt.Sprintf("Current category: %s\nNew category: ", current.Category)); err != nil {
		return err
	}
	quantity, ok, err := c.prompt.askInt(fmt.Sprintf("Current quantity: %d\nNew quantity (enter -1 to keep): ", current.Quantity))
	if err != nil {
		return err
	}
	if ok {
		update.Quantity = quantity
	}
	price, ok, err := c.prompt.askDecimal(fmt.Sprintf("Current price: %s\nNew price (enter -1 to keep): ", current.Price.String()))
	if err != nil {
		return err
	}
	if ok {
		update.Price = price
	}

	_, err = c.service.Update(id, update)
	c.reportMutation(err, "Product updated.")
	return nil
}

// Sell removes one unit from the stock of the entered product.
func (c *Console) Sell() error {
	return c.changeQuantity(sellDelta, "sell")
}

// changeQuantity applies delta to the entered product; label names the action in prompts and messages.
func (c *Console) changeQuantity(delta int, label string) error {
	id, ok, err := c.prompt.askInt(fmt.Sprintf("\nEnter Product ID to %s: ", label))
	if err != nil {
		return err
	}
	if !ok {
		c.println("Invalid input.")
		return nil
	}

	p, err := c.service.ChangeQuantity(id, delta)
	if errors.Is(err, perrors.ErrInsufficientStock) {
		c.printf("Not enough stock. Current qty: %d\n", p.Quantity)
		return nil
	}
	if err == nil {
		c.printf("%s successful. New qty: %d\n", label, p.Quantity)
		return nil
	}
	c.reportMutation(err, "")
	return nil
}

// Restock asks for a positive amount first and only then for the product ID.
func (c *Console) Restock() error {
	amount, ok, err := c.prompt.askInt("Enter amount to restock: ")
	if err != nil {
		return err
	}
	if !ok || amount <= 0 {
		c.println("Invalid amount.")
		return nil
	}
	id, ok, err := c.prompt.askInt("Enter Product ID to restock: ")
	if err != nil {
		return err
	}
	if !ok {
		c.println("Invalid ID.")
		return nil
	}

	_, err = c.service.Restock(id, amount)
	c.reportMutation(err, "Restocked successfully.")
	return nil
}

// Delete removes the entered product.
func (c *Console) Delete() error {
	id, ok, err := c.prompt.askInt("\nEnter Product ID to delete: ")
	if err != nil {
		return err
	}
	if !ok {
		c.println("Invalid input.")
		return nil
	}

	err = c.service.DeleteByID(id)
	c.reportMutation(err, "Product deleted.")
	return nil
}

// reportMutation prints the outcome of a mutating service call.
func (c *Console) reportMutation(err error, success string) {
	switch {
	case err == nil:
		c.println(success)
	case errors.Is(err, perrors.ErrProductNotFound):
		c.println("Product not found.")
	case errors.Is(err, perrors.ErrSaveFailed):
		c.println("Error saving.")
	case errors.Is(err, perrors.ErrInvalidAmount):
		c.println("Invalid amount.")
	default:
		c.logger.Error("Unexpected error", "error", err)
		c.printf("Error: %v\n", err)
	}
}

// printTable prints products in fixed-width columns with prices to two decimal places.
// The line break is part of the padded Price heading, so the rule below it starts indented.
// Widths count runes, not bytes.
func (c *Console) printTable(products []service.ProductDto) {
	c.printf("%-6s%-25s%-15s%-10s%-10s", "ID", "Name", "Category", "Qty", "Price\n")
	c.println(strings.Repeat("-", 70))
	for _, p := range products {
		c.printf("%-6d%-25s%-15s%-10d%s\n", p.ID, p.Name, p.Category, p.Quantity, p.Price.StringFixed(2))
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}
