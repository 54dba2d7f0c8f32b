package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

const (
	choiceExit = 9
	menuText   = "\n====== Inventory Management System ======\n" +
		"1. Add Product\n" +
		"2. Display All Products\n" +
		"3. Search by ID\n" +
		"4. Search by Name\n" +
		"5. Update Product Info\n" +
		"6. Sell Product (decrease qty)\n" +
		"7. Restock Product (increase qty)\n" +
		"8. Delete Product\n" +
		"9. Exit\n" +
		"Enter choice: "
)

// command is one menu entry. pause asks the user to press Enter after the command ran.
type command struct {
	run   func() error
	pause bool
}

// Menu is the interactive loop dispatching numbered choices to console commands.
type Menu struct {
	commands map[int]command
	prompt   *prompter
	out      io.Writer
	logger   *slog.Logger
}

// NewMenu creates a Menu over the commands of console. It must share console's input.
func NewMenu(console *Console, logger *slog.Logger) *Menu {
	return &Menu{
		commands: map[int]command{
			1: {run: console.Add},
			2: {run: console.List, pause: true},
			3: {run: console.SearchByID, pause: true},
			4: {run: console.SearchByName, pause: true},
			5: {run: console.Update, pause: true},
			6: {run: console.Sell, pause: true},
			7: {run: console.Restock, pause: true},
			8: {run: console.Delete, pause: true},
		},
		prompt: console.prompt,
		out:    console.out,
		logger: logger.With("component", "menu"),
	}
}

// Run shows the menu until the user exits or input ends. End of input is a normal exit.
func (m *Menu) Run() error {
	for {
		choice, ok, err := m.prompt.askInt(menuText)
		if err != nil {
			return m.stop(err)
		}
		if !ok {
			fmt.Fprintln(m.out, "Invalid input. Try again.")
			continue
		}
		if choice == choiceExit {
			fmt.Fprintln(m.out, "Exiting...")
			return nil
		}

		cmd, found := m.commands[choice]
		if !found {
			fmt.Fprintln(m.out, "Invalid choice.")
			continue
		}
		m.logger.Debug("Running command", "choice", choice)
		if err := cmd.run(); err != nil {
			return m.stop(err)
		}
		if cmd.pause {
			if _, err := m.prompt.ask("\nPress Enter to continue..."); err != nil {
				return m.stop(err)
			}
		}
	}
}

// stop turns end of input into a clean exit and passes any other read error on.
func (m *Menu) stop(err error) error {
	if errors.Is(err, io.EOF) {
		m.logger.Debug("Input closed, exiting")
		fmt.Fprintln(m.out)
		return nil
	}
	return fmt.Errorf("failed to read input: %w", err)
}
