package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mrz1836/xpubkit/internal/xpub"
)

// AddressList wraps a batch of derived addresses for output. JSON mode
// serializes the slice directly; text mode renders an aligned table.
type AddressList struct {
	Addresses []*xpub.DerivedAddress `json:"addresses"`
}

// PrintAddresses writes a batch of derived addresses in the formatter's
// format.
func (f *Formatter) PrintAddresses(addresses []*xpub.DerivedAddress) error {
	if f.format == FormatJSON {
		return f.printJSON(AddressList{Addresses: addresses})
	}
	return writeAddressTable(f.writer, addresses)
}

func writeAddressTable(w io.Writer, addresses []*xpub.DerivedAddress) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tADDRESS\tTYPE")
	for _, addr := range addresses {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", addr.Path, addr.Address, addr.AddressType)
	}
	return tw.Flush()
}
