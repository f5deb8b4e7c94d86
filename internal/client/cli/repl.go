package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL drives. *App satisfies it.
type execIface interface {
	Folder() string
	SetFolder(id string)
	Upload(ctx context.Context, paths []string) error
	List()
	Remove(id string) error
	Clear()
	Files(ctx context.Context, folderID string) error
}

const helpText = `Available commands:
  upload <paths...>   start uploading files into the current folder
  list                show tracked uploads
  remove <id>         stop tracking an upload
  clear               drop completed uploads
  folder <id>         switch the current folder
  files [folderID]    list completed files of a folder
  exit | quit         leave (waits for running uploads)`

// runREPL reads commands until EOF, "exit" or "quit", or until ctx is done.
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(w, "gcupload (%s)> ", a.Folder())
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			fmt.Fprintln(w, helpText)

		case "upload", "u":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: upload <paths...>")
				continue
			}
			err = a.Upload(ctx, args)

		case "list", "l":
			a.List()

		case "remove", "rm":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: remove <id>")
				continue
			}
			err = a.Remove(args[0])

		case "clear":
			a.Clear()

		case "folder":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: folder <id>")
				continue
			}
			a.SetFolder(args[0])

		case "files":
			folder := ""
			if len(args) > 0 {
				folder = args[0]
			}
			err = a.Files(ctx, folder)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if err != nil {
			fmt.Fprintln(w, "Error:", err)
		}
	}
}
