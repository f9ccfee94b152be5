package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/dftcli/internal/contract"
	"github.com/Mohsinsiddi/dftcli/internal/ui"
	"github.com/spf13/cobra"
)

var selectorCmd = &cobra.Command{
	Use:   "selector [signature|selector|method]",
	Short: "Compute or look up a 4-byte function selector",
	Long: `Compute a 4-byte function selector from a signature, or look one up in
the token ABI. Without an argument every token method is listed.

Examples:
  dftcli selector                                  # token ABI table
  dftcli selector "transfer(address to, uint256)"  # → 0xa9059cbb
  dftcli selector mint                             # → mint(address,uint256)
  dftcli selector 0x40c10f19                       # → mint`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Println(methodTable())
			return nil
		}
		input := args[0]

		// If input starts with 0x, it's a selector to look up.
		if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
			name, err := lookupSelector(input)
			if err != nil {
				return err
			}
			sig, _ := contract.Signature(name)
			fmt.Println(ui.KeyValueBlock("Selector Lookup", [][2]string{
				{"Selector", strings.ToLower(input)},
				{"Method", ui.Val(sig)},
			}))
			return nil
		}

		sig := normalizeSignature(input)
		if !strings.Contains(sig, "(") {
			known, err := contract.Signature(sig)
			if err != nil {
				return fmt.Errorf("%q is not a token method; pass a full signature like name(type,...)", input)
			}
			sig = known
		}

		fmt.Println(ui.KeyValueBlock("Function Selector", [][2]string{
			{"Signature", sig},
			{"Selector", ui.Val(contract.Selector(sig))},
		}))
		return nil
	},
}

// lookupSelector finds the token method for a 0x-prefixed 4-byte selector.
func lookupSelector(s string) (string, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if err != nil || len(raw) != 4 {
		return "", fmt.Errorf("invalid selector %q: want 0x + 8 hex chars", s)
	}
	abi := contract.ABI()
	m, err := abi.MethodById(raw)
	if err != nil {
		return "", fmt.Errorf("selector %s is not part of the token ABI", s)
	}
	return m.Name, nil
}

func methodTable() string {
	t := ui.NewTable([]ui.Column{
		{Title: "Selector", Width: 10},
		{Title: "Signature", Width: 30},
		{Title: "Kind", Width: 6},
	})
	for _, name := range contract.Methods() {
		sig, _ := contract.Signature(name)
		kind := "write"
		if contract.IsRead(name) {
			kind = "view"
		}
		t.AddRow(ui.Row{contract.Selector(sig), sig, kind})
	}
	return t.Render()
}

// normalizeSignature removes parameter names, keeping only types.
// "transfer(address to, uint256 amount)" → "transfer(address,uint256)"
func normalizeSignature(sig string) string {
	sig = strings.TrimSpace(sig)
	parenIdx := strings.Index(sig, "(")
	if parenIdx < 0 || !strings.HasSuffix(sig, ")") {
		return sig
	}

	name := strings.TrimSpace(sig[:parenIdx])
	paramStr := strings.TrimSpace(sig[parenIdx+1 : len(sig)-1])
	if paramStr == "" {
		return name + "()"
	}

	var types []string
	for _, p := range strings.Split(paramStr, ",") {
		// Take only the first word (the type), skip the name.
		if parts := strings.Fields(p); len(parts) > 0 {
			types = append(types, parts[0])
		}
	}
	return name + "(" + strings.Join(types, ",") + ")"
}
