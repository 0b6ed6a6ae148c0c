package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/revenue-atlas/pkg/models/domain"
	"github.com/de-tools/revenue-atlas/pkg/services/revenue"
)

type TableConfig struct {
	DateWidth   int
	AmountWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		DateWidth:   12,
		AmountWidth: 16,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const reportTemplate = `
Revenue Report ({{.Type}})
Period: {{.Range.From}} to {{.Range.To}}
Total Revenue: {{amount .TotalRevenue}}
OTC rows: {{len .Details.OtcRows}}, patient rows: {{len .Details.PatientRows}}

{{separator 1}}
{{row "Date" "Revenue"}}
{{separator 1}}
{{range .DailyRevenue}}{{row .Date (amount .TotalRevenue)}}
{{end}}{{separator 1}}
`

const breakdownTemplate = `
Daily Breakdown ({{.Type}})
Period: {{.Range.From}} to {{.Range.To}}
{{if .OtcDaily}}
=== OTC ===
{{separator 5}}
{{row "Date" "Cost" "Paid" "Medicine" "Tests" "Discount"}}
{{separator 5}}
{{range .OtcDaily}}{{row .Date (money .TotalCost) (money .PaidAmount) (money .MedicineRevenue) (money .TestRevenue) (money .Discount)}}
{{end}}{{separator 5}}
{{end}}{{if .PatientDaily}}
=== Patient ===
{{separator 5}}
{{row "Date" "Consultation" "Medicine" "Doctor" "Other" "Reconciled"}}
{{separator 5}}
{{range .PatientDaily}}{{row .Date (money .ConsultationCost) (money .MedicineRevenue) (money .DoctorRevenue) (money .OtherServices) (money .ReconcileMedicine)}}
{{end}}{{separator 5}}
{{end}}`

func (c *Reporter) Handle(report *domain.RevenueReport) error {
	return c.render("report", reportTemplate, report)
}

func (c *Reporter) HandleBreakdown(breakdown *domain.DailyBreakdown) error {
	return c.render("breakdown", breakdownTemplate, breakdown)
}

func (c *Reporter) render(name, text string, data any) error {
	funcMap := template.FuncMap{
		"amount": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
		"money": func(v any) string {
			return fmt.Sprintf("%.2f", revenue.ParseMoney(v))
		},
		"row": func(date string, amounts ...string) string {
			cells := []string{fmt.Sprintf(" %-*s ", c.config.DateWidth, date)}
			for _, a := range amounts {
				cells = append(cells, fmt.Sprintf(" %*s ", c.config.AmountWidth, a))
			}
			return "|" + strings.Join(cells, "|") + "|"
		},
		"separator": func(amountColumns int) string {
			cells := []string{strings.Repeat("-", c.config.DateWidth+2)}
			for i := 0; i < amountColumns; i++ {
				cells = append(cells, strings.Repeat("-", c.config.AmountWidth+2))
			}
			return "+" + strings.Join(cells, "+") + "+"
		},
	}

	t, err := template.New(name).Funcs(funcMap).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, data)
}
