package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zprobe/internal/identity"
	"github.com/zarlcorp/zprobe/internal/portal"
)

// styles used by the report. Only single lines are rendered through them.
type styles struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	muted lipgloss.Style
	label lipgloss.Style
}

func newStyles(styled bool) styles {
	if !styled {
		plain := lipgloss.NewStyle()
		return styles{title: plain, ok: plain, err: plain, warn: plain, muted: plain, label: plain}
	}
	return styles{
		title: zstyle.Title,
		ok:    zstyle.StatusOK,
		err:   zstyle.StatusErr,
		warn:  zstyle.StatusWarn,
		muted: zstyle.MutedText,
		label: lipgloss.NewStyle().Bold(true),
	}
}

// printer renders probe progress as it happens.
type printer struct {
	w       io.Writer
	baseURL string
	st      styles
}

func newPrinter(w io.Writer, baseURL string, styled bool) *printer {
	return &printer{w: w, baseURL: baseURL, st: newStyles(styled)}
}

func (p *printer) Begin() {
	fmt.Fprintln(p.w, p.st.title.Render("BestBuy connection test"))
	fmt.Fprintln(p.w, p.st.muted.Render(p.baseURL))
}

func (p *printer) RegisterStarted(id identity.Identity) {
	fmt.Fprintf(p.w, "\n%s\n", p.st.label.Render("1. Creating test user..."))
	fmt.Fprintf(p.w, "   %s\n", p.st.muted.Render("email: "+id.Email))
}

func (p *printer) RegisterDone(_ *portal.Session, err error) {
	if err == nil {
		fmt.Fprintf(p.w, "   %s\n", p.st.ok.Render("Test user created successfully"))
		return
	}

	var apiErr *portal.Error
	if errors.As(err, &apiErr) {
		fmt.Fprintf(p.w, "   %s\n", p.st.err.Render(fmt.Sprintf("User creation failed (status %d):", apiErr.StatusCode)))
		if body := strings.TrimSpace(apiErr.Body); body != "" {
			fmt.Fprintln(p.w, indent(body, "   "))
		}
		return
	}
	fmt.Fprintf(p.w, "   %s\n", p.st.err.Render("Registration error: "+err.Error()))
}

func (p *printer) CheckStarted() {
	fmt.Fprintf(p.w, "\n%s\n", p.st.label.Render("2. Testing BestBuy API connection..."))
}

func (p *printer) CheckDone(res *portal.CheckResult, err error) {
	if err != nil {
		fmt.Fprintf(p.w, "   %s\n", p.st.err.Render("BestBuy test error: "+err.Error()))
		return
	}

	fmt.Fprintf(p.w, "   Status Code: %d\n", res.StatusCode)
	fmt.Fprintln(p.w, "   Response:")
	fmt.Fprintln(p.w, indent(prettyJSON(res.Raw, "  "), "   "))

	if res.Success {
		p.passed(res)
		return
	}
	p.failed(res)
}

func (p *printer) passed(res *portal.CheckResult) {
	fmt.Fprintf(p.w, "\n   %s\n", p.st.ok.Render("BestBuy Connection Test PASSED"))
	fmt.Fprintf(p.w, "   Platform: %s\n", orDefault(res.Platform, "Unknown"))
	fmt.Fprintf(p.w, "   API Key: %s\n", orDefault(res.APIKey, "Hidden"))

	if res.HasData() {
		fmt.Fprintln(p.w, "   Account Data:")
		fmt.Fprintln(p.w, indent(prettyJSON(res.Data, "    "), "   "))
	}
}

func (p *printer) failed(res *portal.CheckResult) {
	fmt.Fprintf(p.w, "\n   %s\n", p.st.err.Render("BestBuy Connection Test FAILED: "+orDefault(res.Message, "(no message)")))

	suggestions := res.Suggestions()
	if len(suggestions) == 0 {
		return
	}

	fmt.Fprintf(p.w, "\n   %s\n", p.st.warn.Render("Troubleshooting suggestions:"))
	for _, s := range suggestions {
		fmt.Fprintf(p.w, "   - %s: %s\n", s.Key, s.Value)
	}
}

// prettyJSON re-indents raw JSON, falling back to the raw text.
func prettyJSON(raw []byte, step string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", step); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}

// indent prefixes every line of s.
func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
