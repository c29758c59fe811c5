package merge

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a plain-text, indented rendering of the merged tree to w:
// one line per node showing its GUID, value state and structure state.
// It exists purely for debugging a merge pass by eye (the commands
// package's dump subcommand) and is never parsed back.
func (t *MergedTree) Dump(w io.Writer) error {
	if t.Root == nil {
		_, err := io.WriteString(w, "(empty)\n")
		return err
	}
	return dumpNode(w, t.Root, 0)
}

func dumpNode(w io.Writer, n *MergedTreeNode, depth int) error {
	indent := strings.Repeat("  ", depth)
	line := fmt.Sprintf("%s%s value=%s", indent, n.GUID, n.ValueState.Kind)
	if n.ValueState.Reason != "" {
		line += fmt.Sprintf(" (%s)", n.ValueState.Reason)
	}
	if n.isFolder() {
		line += fmt.Sprintf(" structure=%s", n.StructureState.Kind)
		if n.StructureState.Reason != "" {
			line += fmt.Sprintf(" (%s)", n.StructureState.Reason)
		}
	}
	if _, err := io.WriteString(w, line+"\n"); err != nil {
		return err
	}
	for _, child := range n.MergedChildren {
		if err := dumpNode(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
