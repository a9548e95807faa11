package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/memokeeper/internal/client/client"
	"github.com/dmitrijs2005/memokeeper/internal/client/models"
	"github.com/dmitrijs2005/memokeeper/internal/filex"
)

type usageError string

func (e usageError) Error() string { return "usage: " + string(e) }

func parseID(s string) (models.ResourceID, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid resource id %q", s)
	}
	return models.ResourceID(n), nil
}

func (a *App) Status(ctx context.Context) error {
	if _, err := a.status.Refresh(ctx); err != nil {
		fmt.Fprintf(a.out, "Server %s unreachable, upload limit %d MiB (local)\n",
			a.config.ServerURL, a.status.MaxUploadSizeMiB())
		return err
	}
	fmt.Fprintf(a.out, "Server:          %s (%s)\n", a.config.ServerURL, a.Mode())
	fmt.Fprintf(a.out, "Max upload size: %d MiB\n", a.status.MaxUploadSizeMiB())
	fmt.Fprintf(a.out, "Resources:       %d loaded\n", len(a.resources.State()))
	return nil
}

func (a *App) List(ctx context.Context) error {
	list, err := a.resources.FetchAll(ctx)
	if err != nil {
		return err
	}
	a.printResources(list)
	return nil
}

func (a *App) Page(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("page <limit> <offset>")
	}
	limit, err1 := strconv.Atoi(args[0])
	offset, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return usageError("page <limit> <offset>")
	}

	page, err := a.resources.FetchPage(ctx, limit, offset)
	if err != nil {
		return err
	}
	a.printResources(page)
	fmt.Fprintf(a.out, "%d resources loaded in total\n", len(a.resources.State()))
	return nil
}

func (a *App) Create(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return usageError("create <filename> <type> [link]")
	}
	create := models.ResourceCreate{Filename: args[0], Type: args[1]}
	if len(args) == 3 {
		create.ExternalLink = args[2]
	}

	r, err := a.resources.Create(ctx, create)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created resource %d (%s)\n", r.ID, r.Filename)
	return nil
}

func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("upload <path>...")
	}

	files := make([]models.UploadFile, 0, len(args))
	var opened []*os.File
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()

	for _, path := range args {
		f, info, err := filex.Open(path)
		if err != nil {
			return err
		}
		opened = append(opened, f)
		files = append(files, models.UploadFile{
			Filename: info.Name, Size: info.Size, ContentType: info.ContentType, Body: f,
		})
	}

	bar := newProgressRenderer(a.out, a.outFd)

	if len(files) == 1 {
		r, err := a.resources.UploadSingle(ctx, files[0], func(p float64) {
			bar.render(p, files[0].Filename)
		})
		bar.finish()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Uploaded %s as resource %d\n", r.Filename, r.ID)
		return nil
	}

	created, err := a.resources.UploadBatch(ctx, files, func(p float64, name string) {
		bar.render(p, name)
	})
	bar.finish()
	for _, r := range created {
		fmt.Fprintf(a.out, "Uploaded %s as resource %d\n", r.Filename, r.ID)
	}
	if err != nil {
		fmt.Fprintf(a.out, "Batch stopped after %d of %d files\n", len(created), len(files))
		return err
	}
	return nil
}

func (a *App) Rename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("rename <id> <filename>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	name := strings.Join(args[1:], " ")

	r, err := a.resources.Patch(ctx, models.ResourcePatch{ID: id, Filename: &name})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Resource %d renamed to %s\n", r.ID, r.Filename)
	return nil
}

// Delete removes one resource after the user confirms, warning when memos
// still link to it.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("delete <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("Delete resource %d?", id)
	for _, r := range a.resources.State() {
		if r.ID != id {
			continue
		}
		prompt = fmt.Sprintf("Delete resource %d (%s)?", id, r.Filename)
		if r.LinkedMemoAmount > 0 {
			fmt.Fprintf(a.out, "Warning: %s is linked to %d memo(s)\n", r.Filename, r.LinkedMemoAmount)
		}
		break
	}
	ok, err := Confirm(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	err = a.resources.DeleteByID(ctx, id)
	switch {
	case errors.Is(err, client.ErrNotFound):
		fmt.Fprintf(a.out, "Resource %d already removed\n", id)
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(a.out, "Resource %d deleted\n", id)
	return nil
}

// Prune deletes every loaded resource that no memo links to, one at a
// time, after the user confirms. It stops at the first failure.
func (a *App) Prune(ctx context.Context) error {
	var unused []models.Resource
	for _, r := range a.resources.State() {
		if r.IsUnused() {
			unused = append(unused, r)
		}
	}
	if len(unused) == 0 {
		fmt.Fprintln(a.out, "No unused resources")
		return nil
	}

	for _, r := range unused {
		fmt.Fprintf(a.out, "  %d\t%s\n", r.ID, r.Filename)
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete %d unused resources?", len(unused)), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	removed := 0
	for _, r := range unused {
		err := a.resources.DeleteByID(ctx, r.ID)
		if err != nil && !errors.Is(err, client.ErrNotFound) {
			fmt.Fprintf(a.out, "Removed %d of %d\n", removed, len(unused))
			return err
		}
		removed++
	}
	fmt.Fprintf(a.out, "Removed %d unused resources\n", removed)
	return nil
}

func (a *App) Link(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("link <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	for _, r := range a.resources.State() {
		if r.ID == id {
			fmt.Fprintln(a.out, a.resources.ResourceURL(r))
			return nil
		}
	}
	return fmt.Errorf("resource %d is not loaded, run list first", id)
}

func (a *App) printResources(list []models.Resource) {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No resources")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSIZE\tMEMOS\tUPDATED")
	for _, r := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", r.ID, r.Filename, r.Type, humanSize(r.Size),
			r.LinkedMemoAmount, r.UpdatedAt().Format("2006-01-02 15:04"))
	}
	_ = tw.Flush()
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
