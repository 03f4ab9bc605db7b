package apiclient

import "strings"

// normalizePath ensures a leading slash and prefixes root exactly once. A path counts as
// prefixed when it is root itself or continues it with "/" or "?", so "/apiary" under
// "/api" is not prefixed.
func normalizePath(root, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	root = strings.TrimRight(root, "/")
	if root == "" {
		return path
	}
	if path == root || strings.HasPrefix(path, root+"/") || strings.HasPrefix(path, root+"?") {
		return path
	}
	return root + path
}
