package cli

import (
	"fmt"
	"io"

	"notealog/pkg/domain"
	"notealog/pkg/taskgroup"

	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	dimColor  = color.New(color.Faint)
)

func printOK(w io.Writer, format string, args ...interface{}) {
	okColor.Fprintf(w, format+"\n", args...)
}

// printResult reports a batch and returns its aggregated error, so a
// partially failed batch still exits non-zero.
func printResult(w io.Writer, verb string, res taskgroup.Result) error {
	if len(res.Succeeded) > 0 {
		printOK(w, "%s %d", verb, len(res.Succeeded))
	}
	for _, f := range res.Failed {
		errColor.Fprintf(w, "  %s: %v\n", f.Key, f.Err)
	}
	return res.Err()
}

func folderLabel(folders []domain.Folder, id string) string {
	if f, ok := domain.FindFolderByID(folders, domain.NormalizeFolderID(id)); ok {
		return f.Name
	}
	return id
}

// resolveFolder accepts a folder id or an exact folder name.
func resolveFolder(folders []domain.Folder, ref string) (domain.Folder, error) {
	if f, ok := domain.FindFolderByID(folders, ref); ok {
		return f, nil
	}
	if f, ok := domain.FindFolderByName(folders, ref); ok {
		return f, nil
	}
	return domain.Folder{}, domain.Wrap(domain.ErrNotFound, "resolve folder", fmt.Errorf("no folder %q", ref))
}
