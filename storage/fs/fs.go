// Package fs defines the FileSystem client which implements the storage.LoadSaver interface.
//
// The whole collection is kept in a single JSON document which is replaced on every save.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"humidor/storage"
)

func NewClient(path string) (c *Client, err error) {
	if path == "" {
		return nil, errors.New("data file path must be provided")
	}
	if err = os.MkdirAll(filepath.Dir(path), 0750); err == nil {
		c = &Client{Path: path}
	}
	return c, err
}

type Client struct {
	Path string
}

// Load reads the document. A missing document is read as an empty collection.
func (c Client) Load(_ context.Context) (storage.Collection, error) {
	var o storage.Collection
	data, err := os.ReadFile(c.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		err = nil
	case err != nil:
		err = fmt.Errorf("could not read %s: %w", c.Path, err)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if er := dec.Decode(&o); er != nil {
			err = fmt.Errorf("could not decode %s, the file is corrupt: %w", c.Path, er)
		}
	}
	if o.Cigars == nil {
		o.Cigars = []storage.Record{}
	}
	return o, err
}

// Save replaces the document with c.
// The data is written to a temporary file next to the document first, which is then renamed over it.
func (c Client) Save(_ context.Context, v storage.Collection) error {
	if v.Cigars == nil {
		v.Cigars = []storage.Record{}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode the collection: %w", err)
	}
	data = append(data, '\n')

	f, err := os.CreateTemp(filepath.Dir(c.Path), "."+filepath.Base(c.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create a temporary file: %w", err)
	}
	tmp := f.Name()

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	err = errors.Join(err, f.Close())
	if err == nil {
		err = os.Chmod(tmp, 0660)
	}
	if err == nil {
		err = os.Rename(tmp, c.Path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("could not write %s: %w", c.Path, err)
	}
	return nil
}
