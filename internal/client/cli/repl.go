package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const helpText = `Available commands:
  status                          server status and upload limit
  list                            fetch all resources
  page <limit> <offset>           fetch one page and merge it
  create <filename> <type> [link] register a resource without payload
  upload <path>...                upload one or more files
  rename <id> <filename>          rename a resource
  delete <id>                     delete a resource after confirmation
  prune                           delete every resource no memo links to
  link <id>                       print the resource URL
  exit | quit                     leave the program`

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Status(ctx context.Context) error
	List(ctx context.Context) error
	Page(ctx context.Context, args []string) error
	Create(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Prune(ctx context.Context) error
	Link(ctx context.Context, args []string) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The prompt shows statusFn. The loop ends on EOF, "exit" or "quit".
//
// Command errors are printed and the loop continues. Confirmation prompts
// read from the same reader, so no input is lost between them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("memo %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "status":
			cmdErr = a.Status(ctx)
		case "l", "list":
			cmdErr = a.List(ctx)
		case "page":
			cmdErr = a.Page(ctx, args)
		case "create":
			cmdErr = a.Create(ctx, args)
		case "upload":
			cmdErr = a.Upload(ctx, args)
		case "rename":
			cmdErr = a.Rename(ctx, args)
		case "delete", "rm":
			cmdErr = a.Delete(ctx, args)
		case "prune":
			cmdErr = a.Prune(ctx)
		case "link":
			cmdErr = a.Link(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
