package handler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// prompter reads line-oriented answers from the user.
// Every read returns io.EOF once input is exhausted.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints prompt and reads one line without its line terminator.
func (p *prompter) ask(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(p.out, prompt)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// askInt reads one line as an integer. ok is false if the line is not a number.
func (p *prompter) askInt(prompt string) (n int, ok bool, err error) {
	line, err := p.ask(prompt)
	if err != nil {
		return 0, false, err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(line))
	return n, convErr == nil, nil
}

// askDecimal reads one line as a decimal number. ok is false if the line is not a number.
func (p *prompter) askDecimal(prompt string) (d decimal.Decimal, ok bool, err error) {
	line, err := p.ask(prompt)
	if err != nil {
		return decimal.Zero, false, err
	}
	d, convErr := decimal.NewFromString(strings.TrimSpace(line))
	return d, convErr == nil, nil
}

// askNonNegativeInt repeats the question until a non-negative integer is entered.
func (p *prompter) askNonNegativeInt(prompt, retry string) (int, error) {
	n, ok, err := p.askInt(prompt)
	for err == nil && (!ok || n < 0) {
		n, ok, err = p.askInt(retry)
	}
	return n, err
}

// askNonNegativeDecimal repeats the question until a non-negative number is entered.
func (p *prompter) askNonNegativeDecimal(prompt, retry string) (decimal.Decimal, error) {
	d, ok, err := p.askDecimal(prompt)
	for err == nil && (!ok || d.IsNegative()) {
		d, ok, err = p.askDecimal(retry)
	}
	return d, err
}
