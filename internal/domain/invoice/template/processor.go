package template

import (
	"log/slog"
	"strings"

	"github.com/tariffmill/tariffmill/internal/domain/invoice"
)

// Document is the parsed result of one multi-page shipment document: the
// tagged line items plus whatever the Bill-of-Lading page carried.
type Document struct {
	Items           []invoice.LineItem
	GrossWeight     float64
	BillNumber      string
	ContainerNumber string
	TemplateName    string
}

// Invoices returns the distinct invoice numbers in page order.
func (d Document) Invoices() []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range d.Items {
		if !seen[item.InvoiceNumber] {
			seen[item.InvoiceNumber] = true
			out = append(out, item.InvoiceNumber)
		}
	}
	return out
}

// Processor walks a document's pages: it finds the Bill of Lading, picks
// the best line-item template, and tags every extracted item with the
// invoice and project number current on its page. One PDF routinely
// carries several invoices plus packing-list and BOL pages.
type Processor struct {
	registry *Registry
	bol      *BillOfLading
	logger   *slog.Logger
}

func NewProcessor(registry *Registry, logger *slog.Logger) *Processor {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{registry: registry, bol: NewBillOfLading(), logger: logger}
}

// ProcessPages parses one document given its per-page text.
func (p *Processor) ProcessPages(pages []string) Document {
	var doc Document

	// First pass: the BOL page, wherever it sits.
	for _, page := range pages {
		if p.bol.CanProcess(page) {
			doc.GrossWeight = p.bol.ExtractGrossWeight(page)
			doc.BillNumber = p.bol.ExtractBillNumber(page)
			doc.ContainerNumber = p.bol.ExtractContainerNumber(page)
			if doc.GrossWeight > 0 {
				p.logger.Info("bill of lading found",
					slog.Float64("gross_weight_kg", doc.GrossWeight),
					slog.String("bill_number", doc.BillNumber))
				break
			}
		}
	}

	tmpl := p.registry.Best(strings.Join(pages, "\n"))
	if tmpl == nil {
		p.logger.Warn("no matching invoice template")
		return doc
	}
	doc.TemplateName = tmpl.Name()

	// Second pass: accumulate pages per invoice and extract when the
	// invoice number changes, so items land under the right invoice.
	currentInvoice := ""
	currentProject := ""
	var buffer []string

	flush := func() {
		if len(buffer) == 0 || currentInvoice == "" {
			return
		}
		items := tmpl.ExtractLineItems(strings.Join(buffer, "\n"))
		for i := range items {
			items[i].InvoiceNumber = currentInvoice
			items[i].ProjectNumber = currentProject
			if doc.GrossWeight > 0 {
				items[i].BOLGrossWeight = doc.GrossWeight
				if items[i].NetWeight == 0 {
					items[i].NetWeight = doc.GrossWeight
				}
			}
		}
		doc.Items = append(doc.Items, items...)
		buffer = buffer[:0]
	}

	for _, page := range pages {
		lower := strings.ToLower(page)
		if IsPackingList(page) && !strings.Contains(lower, "invoice") {
			continue
		}
		if strings.Contains(lower, "bill of lading") {
			continue
		}

		if inv := InvoiceNumber(page); inv != "" && currentInvoice != "" && inv != currentInvoice {
			flush()
		}
		if inv := InvoiceNumber(page); inv != "" {
			currentInvoice = inv
		}
		if proj := ProjectNumber(page); proj != "" {
			currentProject = proj
		}
		buffer = append(buffer, page)
	}
	flush()

	p.logger.Info("document parsed",
		slog.String("template", doc.TemplateName),
		slog.Int("invoices", len(doc.Invoices())),
		slog.Int("line_items", len(doc.Items)))
	return doc
}
