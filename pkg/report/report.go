package report

import (
	"fmt"
	"io"

	model_entry "network-rrd/models/if_entry"
)

const lineFormat = "Interface #%-2s (%-8s)  In: %-12s  Out: %-12s"

func FormatLine(r model_entry.InterfaceRecord) string {
	return fmt.Sprintf(lineFormat, r.Index, r.Description, r.InOctets, r.OutOctets)
}

// Writer prints one line per interface record.
type Writer struct {
	out io.Writer
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Write(r model_entry.InterfaceRecord) error {
	_, err := fmt.Fprintln(w.out, FormatLine(r))
	return err
}
