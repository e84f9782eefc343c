package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/fllint/internal/ui/pretty"
)

// helpStyles is the small palette help output needs.
type helpStyles struct {
	heading lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{heading: plain, command: plain, flag: plain, dim: plain}
	}
	return helpStyles{
		heading: lipgloss.NewStyle().Bold(true),
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// styledHelp renders help and usage directly instead of going through
// cobra's text templates; the sections are few enough that writing them out
// is simpler than templating them.
type styledHelp struct {
	styles helpStyles
}

// applyStyledHelp installs the styled help and usage functions on cmd and,
// through cobra's inheritance, on its subcommands.
func applyStyledHelp(cmd *cobra.Command, colorMode string, w io.Writer) {
	h := &styledHelp{styles: newHelpStyles(pretty.IsColorEnabled(colorMode, w))}

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return h.writeUsage(c.OutOrStdout(), c)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		out := c.OutOrStdout()
		if about := strings.TrimSpace(c.Long); about != "" {
			fmt.Fprintln(out, about)
			fmt.Fprintln(out)
		} else if c.Short != "" {
			fmt.Fprintln(out, c.Short)
			fmt.Fprintln(out)
		}
		_ = h.writeUsage(out, c)
	})
}

func (h *styledHelp) writeUsage(w io.Writer, cmd *cobra.Command) error {
	fmt.Fprintln(w, h.styles.heading.Render("Usage:"))
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s\n", h.styles.command.Render(cmd.UseLine()))
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s\n", h.styles.command.Render(cmd.CommandPath()+" [command]"))
	}

	if len(cmd.Aliases) > 0 {
		fmt.Fprintf(w, "\n%s\n  %s\n",
			h.styles.heading.Render("Aliases:"),
			h.styles.dim.Render(strings.Join(cmd.Aliases, ", ")))
	}

	if cmd.HasExample() {
		fmt.Fprintf(w, "\n%s\n%s\n",
			h.styles.heading.Render("Examples:"),
			h.styles.dim.Render(cmd.Example))
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\n%s\n", h.styles.heading.Render("Commands:"))
		for _, sub := range cmd.Commands() {
			if !sub.IsAvailableCommand() && sub.Name() != "help" {
				continue
			}
			fmt.Fprintf(w, "  %s  %s\n",
				h.styles.command.Render(rightPad(sub.Name(), sub.NamePadding())),
				sub.Short)
		}
	}

	h.writeFlagSection(w, "Flags:", cmd.LocalFlags().FlagUsages())
	h.writeFlagSection(w, "Global Flags:", cmd.InheritedFlags().FlagUsages())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\nUse %q for more information about a command.\n",
			cmd.CommandPath()+" [command] --help")
	}
	return nil
}

func (h *styledHelp) writeFlagSection(w io.Writer, title, usages string) {
	usages = strings.TrimRight(usages, "\n")
	if usages == "" {
		return
	}
	fmt.Fprintf(w, "\n%s\n", h.styles.heading.Render(title))
	for _, line := range strings.Split(usages, "\n") {
		fmt.Fprintln(w, h.styleFlagLine(line))
	}
}

// styleFlagLine colors the flag-name part of one pflag usage line. The name
// part ends at the first run of two spaces after it; everything after is the
// description and stays plain.
func (h *styledHelp) styleFlagLine(line string) string {
	names := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(names)]

	gap := strings.Index(names, "  ")
	if gap < 0 {
		return indent + h.styles.flag.Render(names)
	}
	desc := names[gap:]
	return indent + h.styles.flag.Render(names[:gap]) + desc
}

func rightPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
