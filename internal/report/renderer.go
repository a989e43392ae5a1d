// Package report generates downloadable HR report artifacts.
package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/obeidat/hrdesk/internal/domain"
	"github.com/obeidat/hrdesk/internal/logging"
)

// FileRenderer writes leave balance reports as standalone HTML files in
// a reports directory. The dispatcher only consumes the artifact path;
// the transport decides how to deliver it.
type FileRenderer struct {
	dir string
	log *logging.Logger
}

// NewFileRenderer creates a renderer writing into dir.
func NewFileRenderer(dir string, log *logging.Logger) (*FileRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating reports directory: %w", err)
	}
	return &FileRenderer{dir: dir, log: log.Sub("report")}, nil
}

// RenderLeaveReport writes the employee's leave balance report and
// returns the artifact path.
func (r *FileRenderer) RenderLeaveReport(employeeName string, balances []domain.LeaveBalance) (string, error) {
	safeName := strings.ToLower(strings.ReplaceAll(employeeName, " ", "_"))
	path := filepath.Join(r.dir, fmt.Sprintf("leave_%s.html", safeName))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	data := struct {
		EmployeeName string
		Date         string
		Balances     []domain.LeaveBalance
	}{
		EmployeeName: employeeName,
		Date:         time.Now().Format("2006-01-02"),
		Balances:     balances,
	}

	if err := leaveReportTmpl.Execute(f, data); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("rendering leave report: %w", err)
	}

	r.log.Info().Str("employee", employeeName).Str("path", path).Msg("leave report generated")
	return path, nil
}

var leaveReportTmpl = template.Must(template.New("leave").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Leave Balance Report</title>
<style>
  body { font-family: Arial, sans-serif; color: #2c3e50; margin: 40px; }
  .brand { color: #646464; text-align: right; font-size: 10px; font-weight: bold; }
  h1 { border-bottom: 2px solid #2c3e50; padding-bottom: 8px; }
  table { border-collapse: collapse; width: 100%; margin-top: 20px; }
  th { background: #3498db; color: #fff; padding: 10px; }
  td { padding: 8px; border-bottom: 1px solid #ddd; text-align: center; }
  td:first-child { text-align: left; }
  tr:nth-child(even) { background: #f5f5f5; }
  .remaining { font-weight: bold; }
  .footer { margin-top: 40px; color: #969696; font-style: italic; font-size: 9px; text-align: center; }
</style>
</head>
<body>
<div class="brand">HR MANAGEMENT SYSTEM</div>
<h1>Leave Balance Report</h1>
<p><b>Employee Name:</b> {{.EmployeeName}}<br>
<b>Report Date:</b> {{.Date}}</p>
<table>
<tr><th>Leave Type</th><th>Total Entitlement</th><th>Days Used</th><th>Remaining</th></tr>
{{range .Balances}}<tr><td>{{.LeaveType}}</td><td>{{.Total}}</td><td>{{.Used}}</td><td class="remaining">{{.Remaining}}</td></tr>
{{end}}</table>
<div class="footer">This is an electronically generated report. No signature required.</div>
</body>
</html>
`))
