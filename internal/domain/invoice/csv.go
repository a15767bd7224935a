package invoice

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
)

// ReadLineItems parses an interchange CSV.
func ReadLineItems(r io.Reader) ([]LineItem, error) {
	var items []LineItem
	if err := gocsv.Unmarshal(r, &items); err != nil {
		return nil, fmt.Errorf("parsing line item csv: %w", err)
	}
	return items, nil
}

// ReadFile parses an interchange CSV from disk.
func ReadFile(path string) ([]LineItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadLineItems(f)
}

// WriteLineItems writes rows as an interchange CSV.
func WriteLineItems(items []LineItem, w io.Writer) error {
	if err := gocsv.Marshal(&items, w); err != nil {
		return fmt.Errorf("writing line item csv: %w", err)
	}
	return nil
}

// WriteByInvoice writes one CSV per invoice number into dir, named
// <invoice>_<project>_<timestamp>.csv, and returns the created paths in
// first-seen invoice order.
func WriteByInvoice(items []LineItem, dir string, now time.Time) ([]string, error) {
	groups := groupByInvoice(items)
	stamp := now.Format("20060102_150405")

	paths := make([]string, 0, len(groups))
	for _, group := range groups {
		project := group.items[0].ProjectNumber
		if project == "" {
			project = "UNKNOWN"
		}
		name := fmt.Sprintf("%s_%s_%s.csv", safeName(group.invoice), project, stamp)
		path := filepath.Join(dir, name)

		if err := writeFile(group.items, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteConsolidated writes every row into a single CSV, used when the
// consolidate option is on.
func WriteConsolidated(items []LineItem, dir, invoice string, now time.Time) (string, error) {
	name := fmt.Sprintf("%s_%s.csv", safeName(invoice), now.Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := writeFile(items, path); err != nil {
		return "", err
	}
	return path, nil
}

func writeFile(items []LineItem, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return WriteLineItems(items, f)
}

type invoiceGroup struct {
	invoice string
	items   []LineItem
}

func groupByInvoice(items []LineItem) []invoiceGroup {
	index := make(map[string]int)
	var groups []invoiceGroup
	for _, item := range items {
		invoice := item.InvoiceNumber
		if invoice == "" {
			invoice = "UNKNOWN"
		}
		i, ok := index[invoice]
		if !ok {
			i = len(groups)
			index[invoice] = i
			groups = append(groups, invoiceGroup{invoice: invoice})
		}
		groups[i].items = append(groups[i].items, item)
	}
	return groups
}

// safeName strips path separators from invoice numbers like "2025/1850"
// before they become file names.
func safeName(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r == '/' || r == '\\' {
			out[i] = '-'
		}
	}
	return string(out)
}
