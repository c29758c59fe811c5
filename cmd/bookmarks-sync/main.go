// Command bookmarks-sync runs the three-way bookmark merger as a CLI
// tool: import/export Netscape bookmark files, clear URL duplicates,
// dry-run the merger with dump, and run a real sync pass.
package main

func main() {
	Execute()
}
