package fileutils

import (
	"archive/zip"
	"context"
	"crypto/sha1" //nolint:gosec // mod hosts publish sha1 digests
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"
)

var client = resty.New()

var ErrNoModJson = errors.New("jar has no fabric.mod.json")

// WriteCounter counts bytes copied through it and reports them.
type WriteCounter struct {
	Total    int64
	Size     int64
	Progress func(done, total int64)
}

func (wc *WriteCounter) Write(p []byte) (int, error) {
	n := len(p)
	wc.Size += int64(n)
	if wc.Progress != nil {
		wc.Progress(wc.Size, wc.Total)
	}
	return n, nil
}

// DownloadFile streams url into path through a temporary file, so a failed
// download never leaves a truncated file behind.
func DownloadFile(ctx context.Context, url string, path string, progress func(done, total int64)) error {
	resp, err := client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return fmt.Errorf("download %s: %s", url, resp.Status())
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".part"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	counter := &WriteCounter{Total: resp.RawResponse.ContentLength, Progress: progress}
	written, err := io.Copy(file, io.TeeReader(body, counter))
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && counter.Total > 0 && written != counter.Total {
		err = fmt.Errorf("expected %d bytes, got %d", counter.Total, written)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("download %s: %w", url, err)
	}

	return os.Rename(tmp, path)
}

// FileSHA1 returns the hex sha1 digest of a file.
func FileSHA1(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New() //nolint:gosec
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

type ModJson struct {
	Id          string
	Version     string
	Name        string
	Description string
	Authors     []json.RawMessage
}

// GetModJsonFromJar reads the fabric.mod.json manifest from a mod jar.
func GetModJsonFromJar(path string) (ModJson, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return ModJson{}, err
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != "fabric.mod.json" {
			continue
		}
		f, err := file.Open()
		if err != nil {
			return ModJson{}, err
		}
		defer f.Close()

		var modJson ModJson
		if err := json.NewDecoder(f).Decode(&modJson); err != nil {
			return ModJson{}, fmt.Errorf("decode fabric.mod.json: %w", err)
		}
		return modJson, nil
	}
	return ModJson{}, ErrNoModJson
}
