package store

import (
	"fmt"
	"strconv"
	"strings"

	perrors "github.com/abgdnv/inventory/internal/product/errors"
	"github.com/shopspring/decimal"
)

// DefaultDelimiter separates the fields of a stored record.
const DefaultDelimiter = "|"

const fieldCount = 5

// ParseError reports a numeric field that could not be parsed.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Codec converts products to and from single-line text records of the form
// id|name|category|quantity|price. Text fields are not escaped.
type Codec struct {
	delimiter string
	strict    bool
}

// NewCodec creates a Codec. In strict mode a record without exactly five fields is an error;
// otherwise a short record yields a zero-valued product and extra fields are ignored.
func NewCodec(delimiter string, strict bool) Codec {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	return Codec{delimiter: delimiter, strict: strict}
}

// Parse decodes one record.
func (c Codec) Parse(line string) (Product, error) {
	parts := strings.Split(line, c.delimiter)
	if c.strict && len(parts) != fieldCount {
		return Product{}, fmt.Errorf("%w: want %d fields, got %d", perrors.ErrMalformedRecord, fieldCount, len(parts))
	}
	if len(parts) < fieldCount {
		return Product{}, nil
	}

	id, err := parseInt("id", parts[0])
	if err != nil {
		return Product{}, err
	}
	quantity, err := parseInt("quantity", parts[3])
	if err != nil {
		return Product{}, err
	}
	price, err := decimal.NewFromString(strings.TrimSpace(parts[4]))
	if err != nil {
		return Product{}, &ParseError{Field: "price", Value: parts[4], Err: err}
	}

	return Product{
		ID:       id,
		Name:     parts[1],
		Category: parts[2],
		Quantity: quantity,
		Price:    price,
	}, nil
}

// Format encodes one record. The price is written in its shortest exact form.
func (c Codec) Format(p Product) string {
	return strings.Join([]string{
		strconv.Itoa(p.ID),
		p.Name,
		p.Category,
		strconv.Itoa(p.Quantity),
		p.Price.String(),
	}, c.delimiter)
}

// IsShort reports whether line has fewer fields than a complete record.
func (c Codec) IsShort(line string) bool {
	return strings.Count(line, c.delimiter)+1 < fieldCount
}

func parseInt(field, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &ParseError{Field: field, Value: value, Err: err}
	}
	return n, nil
}
