package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	flag "github.com/spf13/pflag"

	nb2html "github.com/alnah/go-nb2html"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
}

// completionMeta holds completion-specific metadata for flags. Flag names,
// types and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// notebookGlob matches convert's positional arguments.
const notebookGlob = "*.ipynb"

// flagCompletionMeta maps flag names to their completion metadata.
func flagCompletionMeta() map[string]completionMeta {
	return map[string]completionMeta{
		// Enum flags
		"theme":       {Values: nb2html.Themes()},
		"code-style":  {Values: styles.Names()},
		"page-size":   {Values: []string{nb2html.PageSizeLetter, nb2html.PageSizeA4, nb2html.PageSizeLegal}},
		"orientation": {Values: []string{nb2html.OrientationPortrait, nb2html.OrientationLandscape}},

		// File flags with glob patterns
		"config": {FileGlob: "*.yaml,*.yml"},
		"css":    {FileGlob: "*.css"},

		// Directory flags
		"output": {IsDir: true},
		"assets": {IsDir: true},
	}
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet,
// enriched with completion metadata.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	meta := flagCompletionMeta()
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if m, ok := meta[f.Name]; ok {
			switch {
			case len(m.Values) > 0:
				fd.Type = flagEnum
				fd.Values = m.Values
			case m.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = m.FileGlob
			case m.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	return []commandDef{
		{Name: "convert", Desc: "Render notebooks to HTML", Flags: extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{}))},
		{Name: "doctor", Desc: "Check PDF export prerequisites", Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "machine-readable output"}}},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	cmds := getCommands()
	switch shell {
	case ShellBash:
		return generateBash(w, cmds)
	case ShellZsh:
		return generateZsh(w, cmds)
	case ShellFish:
		return generateFish(w, cmds)
	case ShellPowerShell:
		return generatePowerShell(w, cmds)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// flagWords lists every --long and -short spelling.
func flagWords(flags []flagDef) []string {
	words := make([]string, 0, len(flags)*2)
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

func flagPattern(f flagDef) string {
	if f.Short != "" {
		return "--" + f.Long + "|-" + f.Short
	}
	return "--" + f.Long
}

func globs(pattern string) []string {
	return strings.Split(pattern, ",")
}

func generateBash(w io.Writer, cmds []commandDef) error {
	convert := cmds[0].Flags
	var b strings.Builder

	b.WriteString("# bash completion for nb2html\n")
	b.WriteString("_nb2html() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    COMPREPLY=()\n\n")
	b.WriteString("    case \"$prev\" in\n")
	for _, f := range convert {
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", flagPattern(f), strings.Join(f.Values, " "))
		case flagFile:
			fmt.Fprintf(&b, "        %s)\n", flagPattern(f))
			for _, g := range globs(f.FileGlob) {
				fmt.Fprintf(&b, "            COMPREPLY+=($(compgen -f -X '!%s' -- \"$cur\"))\n", g)
			}
			b.WriteString("            COMPREPLY+=($(compgen -d -- \"$cur\")); return ;;\n")
		case flagDir:
			fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", flagPattern(f))
		case flagString, flagInt, flagFloat:
			fmt.Fprintf(&b, "        %s) return ;;\n", flagPattern(f))
		}
	}
	b.WriteString("        help) COMPREPLY=($(compgen -W " + fmt.Sprintf("%q", strings.Join(commandNames(cmds), " ")) + " -- \"$cur\")); return ;;\n")
	b.WriteString("        completion) COMPREPLY=($(compgen -W \"bash zsh fish powershell\" -- \"$cur\")); return ;;\n")
	b.WriteString("    esac\n\n")
	fmt.Fprintf(&b, "    if [[ \"$cur\" == -* ]]; then\n        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n        return\n    fi\n",
		strings.Join(flagWords(convert), " "))
	fmt.Fprintf(&b, "    if [[ $COMP_CWORD -eq 1 ]]; then\n        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n    fi\n",
		strings.Join(commandNames(cmds), " "))
	fmt.Fprintf(&b, "    COMPREPLY+=($(compgen -f -X '!%s' -- \"$cur\") $(compgen -d -- \"$cur\"))\n", notebookGlob)
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -F _nb2html nb2html\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshEscape escapes characters special inside an _arguments spec.
func zshEscape(s string) string {
	r := strings.NewReplacer("[", "\\[", "]", "\\]", ":", "\\:", "'", "'\\''")
	return r.Replace(s)
}

func zshSpec(f flagDef) string {
	var action string
	switch f.Type {
	case flagBool:
		action = ""
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:_files -g \"" + strings.Join(globs(f.FileGlob), " ") + "\""
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":" + f.Long + ":"
	}
	desc := "[" + zshEscape(f.Desc) + "]"
	if f.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
	}
	return fmt.Sprintf("'--%s%s%s'", f.Long, desc, action)
}

func generateZsh(w io.Writer, cmds []commandDef) error {
	var b strings.Builder

	b.WriteString("#compdef nb2html\n\n")
	b.WriteString("_nb2html() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )) && [[ $words[2] != -* ]]; then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        _files -g \"" + notebookGlob + "\"\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case $words[2] in\n")
	b.WriteString("        completion) _values 'shell' bash zsh fish powershell ;;\n")
	b.WriteString("        help) _describe 'command' commands ;;\n")
	b.WriteString("        doctor) _arguments '--json[machine-readable output]' ;;\n")
	b.WriteString("        version) ;;\n")
	b.WriteString("        *)\n")
	b.WriteString("            _arguments \\\n")
	for _, f := range cmds[0].Flags {
		fmt.Fprintf(&b, "                %s \\\n", zshSpec(f))
	}
	b.WriteString("                '*:notebook:_files -g \"" + notebookGlob + "\"'\n")
	b.WriteString("            ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_nb2html \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// fishEscape escapes single quotes for fish strings.
func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

func generateFish(w io.Writer, cmds []commandDef) error {
	var b strings.Builder

	b.WriteString("# fish completion for nb2html\n")
	b.WriteString("complete -c nb2html -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c nb2html -n '__fish_use_subcommand' -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	b.WriteString("complete -c nb2html -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish powershell'\n")
	b.WriteString("complete -c nb2html -n 'not __fish_seen_subcommand_from doctor completion version help' -k -a '(__fish_complete_suffix .ipynb)'\n")

	for _, f := range cmds[0].Flags {
		line := "complete -c nb2html -l " + f.Long
		if f.Short != "" {
			line += " -s " + f.Short
		}
		switch f.Type {
		case flagBool:
		case flagEnum:
			line += " -x -a '" + strings.Join(f.Values, " ") + "'"
		case flagFile:
			line += " -r -F"
		case flagDir:
			line += " -x -a '(__fish_complete_directories)'"
		default:
			line += " -x"
		}
		line += " -d '" + fishEscape(f.Desc) + "'"
		b.WriteString(line + "\n")
	}
	b.WriteString("complete -c nb2html -n '__fish_seen_subcommand_from doctor' -l json -d 'machine-readable output'\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generatePowerShell(w io.Writer, cmds []commandDef) error {
	quote := func(words []string) string {
		q := make([]string, len(words))
		for i, word := range words {
			q[i] = "'" + word + "'"
		}
		return strings.Join(q, ", ")
	}

	var b strings.Builder
	b.WriteString("# PowerShell completion for nb2html\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName nb2html -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n")
	fmt.Fprintf(&b, "    $commands = @(%s)\n", quote(commandNames(cmds)))
	fmt.Fprintf(&b, "    $flags = @(%s)\n", quote(flagWords(cmds[0].Flags)))
	b.WriteString("    $candidates = if ($wordToComplete -like '-*') { $flags } else { $commands }\n")
	b.WriteString("    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2html completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(nb2html completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(nb2html completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    nb2html completion fish > ~/.config/fish/completions/nb2html.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    nb2html completion powershell | Out-String | Invoke-Expression")
}
