package main

import (
	"fmt"
	"io"
	"sort"
)

// Report writes a human readable summary and reports whether the run passes
func (c *Checker) Report(w io.Writer) bool {
	ok := true
	codes := c.Codes()
	fmt.Fprintf(w, "Checked %d error codes\n", len(codes))

	if c.cfg.Verbose {
		for _, info := range codes {
			fmt.Fprintf(w, "  %s %s = %q (%d uses) %s:%d\n", info.Package, info.Name, info.Value, info.Uses, info.File, info.Line)
		}
	}

	if len(c.Invalid) > 0 {
		ok = false
		fmt.Fprintf(w, "\nInvalid error codes:\n")
		writeFindings(w, c.Invalid)
	}

	if dups := c.Duplicates(); len(dups) > 0 {
		ok = false
		values := make([]string, 0, len(dups))
		for v := range dups {
			values = append(values, v)
		}
		sort.Strings(values)
		fmt.Fprintf(w, "\nDuplicate error codes:\n")
		for _, v := range values {
			for _, info := range dups[v] {
				fmt.Fprintf(w, "  %s:%d %s = %q\n", info.File, info.Line, info.Name, v)
			}
		}
	}

	if unused := c.Unused(); len(unused) > 0 {
		if c.cfg.ExitOnUnused {
			ok = false
		}
		fmt.Fprintf(w, "\nUnused error codes:\n")
		for _, info := range unused {
			fmt.Fprintf(w, "  %s:%d %s\n", info.File, info.Line, info.Name)
		}
	}

	if len(c.Forbidden) > 0 {
		if c.cfg.ExitOnForbidden {
			ok = false
		}
		fmt.Fprintf(w, "\nForbidden error constructors:\n")
		writeFindings(w, c.Forbidden)
	}

	if ok {
		fmt.Fprintln(w, "\nOK")
	}
	return ok
}

func writeFindings(w io.Writer, findings []Finding) {
	sorted := append([]Finding(nil), findings...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].File != sorted[j].File {
			return sorted[i].File < sorted[j].File
		}
		return sorted[i].Line < sorted[j].Line
	})
	for _, f := range sorted {
		fmt.Fprintf(w, "  %s:%d %s\n", f.File, f.Line, f.Message)
	}
}
