package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/orgmorph/pkg/org"
	"github.com/matzehuels/orgmorph/pkg/store"
)

// ReadJSON decodes and validates a snapshot in the storage schema:
//
//	{
//	  "version": "1.0",
//	  "director": {"id": "director-001", ...},
//	  "developers": [...],
//	  "squads": [...],
//	  "train": {...},
//	  "rte": {...}
//	}
//
// A snapshot missing version, director or developers is rejected with
// INVALID_SNAPSHOT, as is one that fails [org.Organization.Validate].
func ReadJSON(r io.Reader) (*org.Organization, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	o, err := store.DecodeSnapshot(bytes.TrimPrefix(data, []byte(bom)))
	if err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// ImportJSON reads the snapshot file at path.
func ImportJSON(path string) (*org.Organization, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes o as indented JSON.
func WriteJSON(w io.Writer, o *org.Organization) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(o)
}

// ExportJSON writes o to path.
func ExportJSON(o *org.Organization, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, o); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
