package console

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/abgdnv/productsctl/internal/product/client"
	"github.com/abgdnv/productsctl/internal/product/model"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeProducts prints products as a table or a JSON array. A nil list prints as [].
func writeProducts(w io.Writer, format string, products []model.Product) error {
	if products == nil {
		products = []model.Product{}
	}
	if format == outputJSON {
		return writeJSON(w, products)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range products {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", p.ID, p.Name, formatPrice(p.Price), p.Stock)
	}
	return tw.Flush()
}

func writeProduct(w io.Writer, format string, p *model.Product) error {
	if format == outputJSON {
		return writeJSON(w, p)
	}
	return writeProducts(w, format, []model.Product{*p})
}

func writeMessage(w io.Writer, format string, result *model.DeleteResult) error {
	if format == outputJSON {
		return writeJSON(w, result)
	}
	_, err := fmt.Fprintln(w, result.Message)
	return err
}

// rawOutput is the JSON form of a raw response.
type rawOutput struct {
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Headers    map[string]string `json:"headers"`
	Body       any               `json:"body"`
}

// writeRaw prints the status line, the headers sorted by name and the body.
func writeRaw(w io.Writer, format string, resp *client.RawResponse) error {
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	slices.Sort(names)

	if format == outputJSON {
		out := rawOutput{
			Status:     resp.StatusCode,
			StatusText: resp.StatusText,
			Headers:    make(map[string]string, len(names)),
			Body:       resp.Body,
		}
		for _, name := range names {
			out.Headers[name] = strings.Join(resp.Header.Values(name), ", ")
		}
		if json.Valid([]byte(resp.Body)) {
			out.Body = json.RawMessage(resp.Body)
		}
		return writeJSON(w, out)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d %s\n", resp.StatusCode, resp.StatusText))
	for _, name := range names {
		b.WriteString(fmt.Sprintf("%s: %s\n", name, strings.Join(resp.Header.Values(name), ", ")))
	}
	b.WriteString("\n")
	b.WriteString(resp.Body)
	if resp.Body != "" && !strings.HasSuffix(resp.Body, "\n") {
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// formatPrice keeps two decimals for display, e.g. 12.5 as 12.50.
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}
