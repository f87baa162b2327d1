package arena

import (
	"encoding/hex"
	"fmt"
	"io"
)

// Dump writes a human-readable description of the header followed by a hex
// dump of every active block, newest first.
func (a *Arena) Dump(w io.Writer) error {
	if a.err != nil {
		_, err := fmt.Fprintf(w, "invalid arena: %v\n", a.err)
		return err
	}

	h := a.hdr
	if _, err := fmt.Fprintf(w,
		"magic=%q version=%#04x memsize=%d headsize=%d total=%d used=%d free=%d active=%d\n",
		h.magic(), h.version(), h.memSize(), h.headSize(), h.total(), h.used(), h.freeHead(), h.activeHead(),
	); err != nil {
		return err
	}

	for id, v := range a.All() {
		rec := a.record(id)
		if _, err := fmt.Fprintf(w, "block %d prev=%d next=%d\n", id, rec.prev(), rec.next()); err != nil {
			return err
		}
		if len(v) == 0 {
			continue
		}
		d := hex.Dumper(w)
		if _, err := d.Write(v); err != nil {
			return err
		}
		if err := d.Close(); err != nil {
			return err
		}
	}
	return nil
}
