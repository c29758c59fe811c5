// Package ui is a read-only debug viewer over the three input trees and
// the merge they would produce: four tview.List panes side by side
// (LOCAL, MIRROR, REMOTE, MERGED), a shared detail pane, and a status
// bar, same layout idiom as the teacher's bookmark browser (list,
// detail, status, Tab to switch focus, q to quit).
package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/dastanaron/bookmarks-sync/internal/merge"
	"github.com/dastanaron/bookmarks-sync/internal/storage"
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
	"github.com/dastanaron/bookmarks-sync/internal/tree"
)

var paneOrder = []string{"local", "mirror", "remote", "merged"}

var paneTitles = map[string]string{
	"local":  "LOCAL",
	"mirror": "MIRROR",
	"remote": "REMOTE",
	"merged": "MERGED",
}

// row is one line of a pane's list: the GUID it represents (for detail
// lookup) and the text already formatted for display.
type row struct {
	guid syncids.GUID
	main string
	sub  string
}

// App is the debug viewer.
type App struct {
	app    *tview.Application
	lists  map[string]*tview.List
	detail *tview.TextView
	status *tview.TextView
	pages  *tview.Pages

	store *storage.Store
	log   *zap.Logger

	records  map[syncids.GUID]syncids.Record
	rows     map[string][]row
	focusIdx int
}

// NewApp creates a new viewer instance over store.
func NewApp(store *storage.Store, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	lists := make(map[string]*tview.List, len(paneOrder))
	for _, name := range paneOrder {
		lists[name] = tview.NewList().ShowSecondaryText(true)
	}
	return &App{
		app:    tview.NewApplication(),
		lists:  lists,
		detail: tview.NewTextView().SetDynamicColors(true).SetWrap(true),
		status: tview.NewTextView().SetDynamicColors(true),
		pages:  tview.NewPages(),
		store:  store,
		log:    log,
		rows:   make(map[string][]row, len(paneOrder)),
	}
}

// Run loads the three trees, runs one dry-run merge, and starts the
// event loop. It never writes to the store.
func (a *App) Run() error {
	if err := a.load(); err != nil {
		return err
	}

	cols := tview.NewFlex()
	for _, name := range paneOrder {
		list := a.lists[name]
		list.SetBorder(true).SetTitle(paneTitles[name])
		cols.AddItem(list, 0, 1, name == paneOrder[0])
	}

	a.detail.SetBorder(true).SetTitle("Details")

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(cols, 0, 3, true).
		AddItem(a.detail, 0, 1, false).
		AddItem(a.status, 1, 0, false)

	a.pages.AddPage("main", main, true, true)
	a.app.SetRoot(a.pages, true)
	a.app.SetInputCapture(a.globalInput)

	for _, name := range paneOrder {
		n := name
		a.lists[n].SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			a.showDetails(n, index)
		})
	}

	a.focusIdx = 0
	a.app.SetFocus(a.lists[paneOrder[0]])
	a.updateStatus()
	return a.app.Run()
}

func (a *App) load() error {
	ctx := context.Background()

	local, err := a.store.LoadLocal(ctx)
	if err != nil {
		return fmt.Errorf("loading local tree: %w", err)
	}
	mirror, err := a.store.LoadMirror(ctx)
	if err != nil {
		return fmt.Errorf("loading mirror tree: %w", err)
	}
	remote, err := a.store.LoadBuffer(ctx)
	if err != nil {
		return fmt.Errorf("loading buffer tree: %w", err)
	}

	a.records = make(map[syncids.GUID]syncids.Record)
	for _, side := range []string{"local", "mirror", "buffer"} {
		recs, _, err := a.store.ReadTree(ctx, side)
		if err != nil {
			return fmt.Errorf("reading %s records: %w", side, err)
		}
		for guid, r := range recs {
			a.records[guid] = r
		}
	}

	a.rows["local"] = flattenTree(local, a.records)
	a.rows["mirror"] = flattenTree(mirror, a.records)
	a.rows["remote"] = flattenTree(remote, a.records)

	merged, err := merge.Merge(ctx, local, mirror, remote, a.store.Sources(), a.log)
	if err != nil {
		return fmt.Errorf("merging: %w", err)
	}
	a.rows["merged"] = flattenMerged(merged)

	for _, name := range paneOrder {
		list := a.lists[name]
		list.Clear()
		for _, r := range a.rows[name] {
			list.AddItem(r.main, r.sub, 0, nil)
		}
	}
	return nil
}

// flattenTree depth-first walks bt's subtrees, indenting each level.
func flattenTree(bt *tree.BookmarkTree, records map[syncids.GUID]syncids.Record) []row {
	var out []row
	var walk func(guid syncids.GUID, depth int)
	walk = func(guid syncids.GUID, depth int) {
		out = append(out, row{guid: guid, main: indent(depth) + label(guid, records), sub: string(guid)})
		node, ok := bt.Lookup[guid]
		if !ok {
			return
		}
		for _, child := range tree.ChildrenOf(node) {
			walk(child, depth+1)
		}
	}
	for _, root := range bt.Subtrees {
		walk(root, 0)
	}
	return out
}

// flattenMerged depth-first walks the merged tree, annotating every
// folder and leaf with its value/structure decision.
func flattenMerged(t *merge.MergedTree) []row {
	var out []row
	if t.Root == nil {
		return out
	}
	var walk func(n *merge.MergedTreeNode, depth int)
	walk = func(n *merge.MergedTreeNode, depth int) {
		sub := n.ValueState.Kind.String()
		if n.StructureState.Kind != merge.StructureUnchanged {
			sub += " / " + n.StructureState.Kind.String()
		}
		out = append(out, row{guid: n.GUID, main: indent(depth) + string(n.GUID), sub: sub})
		for _, child := range n.MergedChildren {
			walk(child, depth+1)
		}
	}
	walk(t.Root, 0)
	return out
}

func indent(depth int) string {
	s := ""
	for i := 0; i < depth; i++ {
		s += "  "
	}
	return s
}

func label(guid syncids.GUID, records map[syncids.GUID]syncids.Record) string {
	r, ok := records[guid]
	if !ok {
		return string(guid)
	}
	switch {
	case r.Type == syncids.TypeFolder && r.FolderName != nil:
		return "\U0001F4C1 " + *r.FolderName
	case r.Title != nil && *r.Title != "":
		return *r.Title
	case r.BookmarkURI != nil:
		return *r.BookmarkURI
	default:
		return string(guid)
	}
}

func (a *App) showDetails(pane string, index int) {
	rows := a.rows[pane]
	if index < 0 || index >= len(rows) {
		a.detail.SetText("")
		return
	}
	guid := rows[index].guid
	r, ok := a.records[guid]
	if !ok {
		a.detail.SetText(fmt.Sprintf("[::b]GUID:[::-]\n%s\n\n(no record on any side)", guid))
		return
	}

	title, uri := "", ""
	if r.Title != nil {
		title = *r.Title
	}
	if r.BookmarkURI != nil {
		uri = *r.BookmarkURI
	}
	folderName := ""
	if r.FolderName != nil {
		folderName = *r.FolderName
	}

	a.detail.SetText(fmt.Sprintf(
		"[::b]GUID:[::-]\n%s\n\n[::b]Type:[::-]\n%s\n\n[::b]Title:[::-]\n%s\n\n[::b]URL:[::-]\n%s\n\n[::b]Folder name:[::-]\n%s\n\n[::b]Deleted:[::-]\n%v",
		guid, r.Type, title, uri, folderName, r.IsDeleted))
}

func (a *App) updateStatus() {
	a.status.SetText(fmt.Sprintf(
		"[::b]Tab[::r] switch pane  [::b]Enter[::r] open URL  [::b]q[::r] quit   pane: %s",
		paneTitles[paneOrder[a.focusIdx]]))
}

func (a *App) globalInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyTab:
		a.focusIdx = (a.focusIdx + 1) % len(paneOrder)
		a.app.SetFocus(a.lists[paneOrder[a.focusIdx]])
		a.updateStatus()
		return nil
	case tcell.KeyEnter:
		pane := paneOrder[a.focusIdx]
		idx := a.lists[pane].GetCurrentItem()
		rows := a.rows[pane]
		if idx >= 0 && idx < len(rows) {
			if r, ok := a.records[rows[idx].guid]; ok && r.BookmarkURI != nil && *r.BookmarkURI != "" {
				openURL(*r.BookmarkURI)
			}
		}
		return nil
	case tcell.KeyRune:
		if event.Rune() == 'q' {
			a.app.Stop()
			return nil
		}
	}
	return event
}

func openURL(url string) {
	var cmd string
	var args []string
	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start"}
	case "darwin":
		cmd = "open"
	default:
		cmd = "xdg-open"
	}
	args = append(args, url)
	_ = exec.Command(cmd, args...).Start()
}
