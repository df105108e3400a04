package util

type ModData struct {
	Platform string `json:"platform"`
	Slug     string `json:"slug,omitempty"`
	Name     string `json:"name"`
	Id       string `json:"id"`
	Version  string `json:"version,omitempty"`
	Url      string `json:"url"`
	Filename string `json:"filename"`
	Sha1     string `json:"sha1,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// Profile is a named game install: a base version, an optional loader and
// the mods on top of it.
type Profile struct {
	Name          string    `json:"name"`
	Path          string    `json:"path"`
	Version       string    `json:"version"`
	Loader        string    `json:"loader,omitempty"`
	LoaderVersion string    `json:"loaderVersion,omitempty"`
	JavaArgs      []string  `json:"javaArgs,omitempty"`
	Mods          []ModData `json:"mods,omitempty"`
	Created       string    `json:"created"`
	LastUsed      string    `json:"lastUsed"`
}
