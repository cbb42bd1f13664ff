package emulator

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ezrec/rrmachine/machine"
)

const dumpHeader = "    0    1    2    3    4    5    6    7    8    9    A    B    C    D    E    F       R\n"

// Dump writes the special registers, then memory as a 16x16 grid with the
// register bank alongside.
func (emu *Emulator) Dump(w io.Writer) (err error) {
	out := bufio.NewWriter(w)

	fmt.Fprintf(out, "\nPC: [%02X] IR: [%04X] SR: [%02X]\n", emu.Pc, emu.Ir, uint8(emu.Status))
	out.WriteString(dumpHeader)

	for row := range 0x10 {
		fmt.Fprintf(out, "%X", row)
		for column := range 0x10 {
			fmt.Fprintf(out, " [%02X]", emu.Memory[row*0x10+column])
		}
		label := "   "
		if row == machine.REGISTER_SP {
			label = " SP"
		}
		fmt.Fprintf(out, " %v[%02X]\n", label, emu.Register[row])
	}

	return out.Flush()
}
