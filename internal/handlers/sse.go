package handlers

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/query"
	"sales-dashboard/internal/services"
)

var statsTemplate = template.Must(template.New("stats").Parse(`<div id="stats-content" class="stats-grid">
<div class="stat-card"><span class="stat-label">Total Sale</span><strong>${{printf "%.2f" .TotalSaleAmount}}</strong></div>
<div class="stat-card"><span class="stat-label">Sold Items</span><strong>{{.SoldItems}}</strong></div>
<div class="stat-card"><span class="stat-label">Not Sold Items</span><strong>{{.NotSoldItems}}</strong></div>
</div>`))

var barChartTemplate = template.Must(template.New("barChart").Parse(`<div id="barchart-content" class="bar-chart">
{{range .}}<div class="bar-row"><span class="bar-label">{{.Label}}</span><div class="bar-track"><div class="bar" style="width: {{.Width}}%"></div></div><span class="bar-count">{{.Count}}</span></div>
{{end}}</div>`))

var pieChartTemplate = template.Must(template.New("pieChart").Parse(`<div id="piechart-content" class="category-list">
{{range .}}<div class="category-row"><span class="category-badge">{{.Label}}</span><div class="bar-track"><div class="bar" style="width: {{.Width}}%"></div></div><span class="bar-count">{{.Count}}</span></div>
{{else}}<p class="empty">No sales this month</p>{{end}}</div>`))

var transactionsTemplate = template.Must(template.New("transactions").Parse(`<div id="transactions-content">
<table class="modern-table">
<thead><tr><th>ID</th><th>Title</th><th>Description</th><th>Price</th><th>Category</th><th>Sold</th><th>Image</th></tr></thead>
<tbody>
{{range .Transactions}}<tr>
<td>{{.ID}}</td>
<td>{{.Title}}</td>
<td class="description">{{.Description}}</td>
<td>${{printf "%.2f" .Price}}</td>
<td><span class="category-badge">{{.Category}}</span></td>
<td>{{if .Sold}}Yes{{else}}No{{end}}</td>
<td>{{if .Image}}<img src="{{.Image}}" alt="{{.Title}}" loading="lazy" width="48">{{end}}</td>
</tr>{{else}}<tr><td colspan="7" class="empty">No transactions found</td></tr>{{end}}
</tbody>
</table>
<div class="pagination-info">Page {{.Pagination.Page}} of {{.Pagination.TotalPages}} ({{.Pagination.Total}} records)</div>
</div>`))

// signalText accepts a signal sent either as a JSON string or a number,
// since a bound select yields "3" while a computed signal yields 3.
type signalText string

func (s *signalText) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = signalText(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = signalText(n.String())
	return nil
}

// dashboardSignals mirrors the client-side signal store of the dashboard.
type dashboardSignals struct {
	Month   signalText `json:"month"`
	Search  string     `json:"search"`
	Page    signalText `json:"page"`
	PerPage signalText `json:"perPage"`
}

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *SSEHandlers) readSignals(r *http.Request) (dashboardSignals, error) {
	var signals dashboardSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		return signals, errors.InvalidArgument(err, "Invalid signals")
	}
	return signals, nil
}

// HandleDashboard pushes the statistics cards and the chart data for the
// selected month.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	signals, err := h.readSignals(r)
	sse := datastar.NewSSE(w, r)
	if err != nil {
		h.patchError(sse, r, err)
		return
	}

	combined, err := h.analytics.Combined(r.Context(), string(signals.Month))
	if err != nil {
		h.patchError(sse, r, err)
		return
	}

	for _, render := range []func() (string, error){
		func() (string, error) { return renderStats(combined.Statistics) },
		func() (string, error) { return renderBars(barChartTemplate, bucketBars(combined.BarChart)) },
		func() (string, error) { return renderBars(pieChartTemplate, categoryBars(combined.PieChart)) },
	} {
		html, err := render()
		if err != nil {
			h.logger.ErrorContext(r.Context(), "render dashboard fragment", "error", err)
			return
		}
		sse.PatchElements(html)
	}

	payload, err := json.Marshal(map[string]any{
		"statistics": combined.Statistics,
		"barChart":   combined.BarChart,
		"pieChart":   combined.PieChart,
		"error":      "",
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(payload)
}

// HandleTransactions pushes one page of the transaction table, honoring
// the search box.
func (h *SSEHandlers) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	signals, err := h.readSignals(r)
	sse := datastar.NewSSE(w, r)
	if err != nil {
		h.patchError(sse, r, err)
		return
	}

	page := query.ParsePage(string(signals.Page), string(signals.PerPage))
	result, err := h.analytics.List(r.Context(), string(signals.Month), strings.TrimSpace(signals.Search), page)
	if err != nil {
		h.patchError(sse, r, err)
		return
	}

	html, err := renderTransactions(result)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "render transactions", "error", err)
		return
	}
	sse.PatchElements(html)

	payload, err := json.Marshal(map[string]any{
		"page":       result.Pagination.Page,
		"totalPages": result.Pagination.TotalPages,
		"error":      "",
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "marshal pagination signals", "error", err)
		return
	}
	sse.PatchSignals(payload)
}

// patchError reports a failure through the error signal; the stream has
// already answered 200 so the status code cannot carry it.
func (h *SSEHandlers) patchError(sse *datastar.ServerSentEventGenerator, r *http.Request, err error) {
	message := "An unexpected error occurred"
	level := slog.LevelError
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		message = appErr.Message
		if appErr.StatusCode < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
	}
	h.logger.Log(r.Context(), level, "dashboard stream failed", "path", r.URL.Path, "error", err)

	payload, _ := json.Marshal(map[string]string{"error": message})
	sse.PatchSignals(payload)
}

func renderStats(s models.Summary) (string, error) {
	var buf bytes.Buffer
	err := statsTemplate.Execute(&buf, s)
	return buf.String(), err
}

// chartBar is one row of a server-rendered bar chart, its width relative
// to the largest count.
type chartBar struct {
	Label string
	Count int64
	Width int
}

func bucketBars(buckets []models.BucketCount) []chartBar {
	bars := make([]chartBar, len(buckets))
	for i, b := range buckets {
		bars[i] = chartBar{Label: b.Range, Count: b.Count}
	}
	return scaleBars(bars)
}

func categoryBars(counts []models.CategoryCount) []chartBar {
	bars := make([]chartBar, len(counts))
	for i, c := range counts {
		bars[i] = chartBar{Label: c.Category, Count: c.Count}
	}
	return scaleBars(bars)
}

func scaleBars(bars []chartBar) []chartBar {
	var peak int64
	for _, b := range bars {
		peak = max(peak, b.Count)
	}
	if peak == 0 {
		return bars
	}
	for i := range bars {
		bars[i].Width = int(bars[i].Count * 100 / peak)
	}
	return bars
}

func renderBars(t *template.Template, bars []chartBar) (string, error) {
	var buf bytes.Buffer
	err := t.Execute(&buf, bars)
	return buf.String(), err
}

func renderTransactions(p models.TransactionPage) (string, error) {
	var buf bytes.Buffer
	err := transactionsTemplate.Execute(&buf, p)
	return buf.String(), err
}
