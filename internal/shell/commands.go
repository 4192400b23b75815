package shell

import "github.com/beevik/cmd"

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree("asc2000")
	root.AddCommand(cmd.Command{
		Name:        "assemble",
		Brief:       "Assemble one or more source files",
		Description: "Run the macro pre-processor and two-pass assembler on each named file, producing .ob/.ent/.ext files on success.",
		Usage:       "assemble <file> [<file> ...]",
		Data:        (*Shell).cmdAssemble,
	})
	root.AddCommand(cmd.Command{
		Name:        "symbols",
		Brief:       "List symbols from the last assembled file",
		Description: "Display every symbol defined by the most recently assembled file, or, given a prefix, the one symbol that prefix uniquely identifies.",
		Usage:       "symbols [<prefix>]",
		Data:        (*Shell).cmdSymbols,
	})
	root.AddCommand(cmd.Command{
		Name:        "entries",
		Brief:       "List .entry symbols from the last assembled file",
		Usage:       "entries",
		Data:        (*Shell).cmdEntries,
	})
	root.AddCommand(cmd.Command{
		Name:        "externs",
		Brief:       "List extern references from the last assembled file",
		Usage:       "externs",
		Data:        (*Shell).cmdExterns,
	})
	root.AddCommand(cmd.Command{
		Name:        "set",
		Brief:       "Display or change a shell setting",
		Description: "With no arguments, display every setting and its current value. With two arguments, assign value to the named setting.",
		Usage:       "set [<setting> <value>]",
		Data:        (*Shell).cmdSet,
	})
	root.AddCommand(cmd.Command{
		Name:        "help",
		Brief:       "Display help for a command",
		Usage:       "help [<command>]",
		Data:        (*Shell).cmdHelp,
	})
	root.AddCommand(cmd.Command{
		Name:        "quit",
		Brief:       "Quit the shell",
		Usage:       "quit",
		Data:        (*Shell).cmdQuit,
	})

	root.AddShortcut("a", "assemble")
	root.AddShortcut("sym", "symbols")
	root.AddShortcut("?", "help")

	cmds = root
}
