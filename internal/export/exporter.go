package export

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"
	"google.golang.org/protobuf/proto"
	"gopkg.in/yaml.v3"

	"nga/internal/analysis"
	ngaerrors "nga/internal/errors"
	"nga/internal/paths"
	"nga/internal/version"
)

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// NewDocument converts an analysis result. Every path in the document is
// relative to the workspace root.
func NewDocument(res *analysis.Result, runID, fingerprint string) *Document {
	root := res.Workspace.Root
	graph := res.Graph.Relative(root)

	doc := &Document{
		RunID:         runID,
		Tool:          version.Name,
		Version:       version.Version,
		GeneratedAt:   res.FinishedAt.UTC(),
		WorkspaceRoot: root,
		Fingerprint:   fingerprint,
		Projects:      make([]Project, 0, len(res.Projects)),
		Results:       res.Elements.Sorted(),
		Graph: Graph{
			Nodes:  nonNil(graph.Nodes()),
			Edges:  nonNil(graph.Edges()),
			Cycles: nonNil(graph.CircularDependencies()),
		},
		Warnings: nonNil(res.Warnings),
	}
	for _, p := range res.Projects {
		doc.Projects = append(doc.Projects, projectOf(p.Project, len(p.Files), p.Results.Len()))
	}
	return doc
}

// Fingerprint hashes the workspace-relative paths and sizes of files with
// BLAKE2b-256. Order of files does not matter; unreadable files hash with
// size -1.
func Fingerprint(root string, files []string) string {
	rels := make([]string, 0, len(files))
	sizes := make(map[string]int64, len(files))
	for _, f := range files {
		rel := paths.RelativeTo(f, root)
		size := int64(-1)
		if info, err := os.Stat(f); err == nil {
			size = info.Size()
		}
		if _, dup := sizes[rel]; !dup {
			rels = append(rels, rel)
		}
		sizes[rel] = size
	}
	sort.Strings(rels)

	h, _ := blake2b.New256(nil)
	for _, rel := range rels {
		io.WriteString(h, rel)
		h.Write([]byte{0})
		io.WriteString(h, strconv.FormatInt(sizes[rel], 10))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Encode writes doc to w in the given format.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	case FormatSCIP:
		data, err := proto.Marshal(ToSCIP(doc))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}

// WriteFile encodes doc to path. A path ending in .zst is zstd
// compressed. The file is written to a temporary name and renamed into
// place so readers never see a partial document.
func WriteFile(path string, doc *Document, format Format) (err error) {
	fail := func(err error) error {
		return ngaerrors.NewNgaError(ngaerrors.OutputFailed, "cannot write analysis output", err,
			ngaerrors.GetSuggestedFixes(ngaerrors.OutputFailed)).
			WithDetails(map[string]string{"path": path, "format": string(format)})
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fail(err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fail(err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	var w io.Writer = buf
	var zw *zstd.Encoder
	if strings.HasSuffix(path, CompressedSuffix) {
		zw, err = zstd.NewWriter(buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fail(err)
		}
		w = zw
	}

	if err = Encode(w, doc, format); err != nil {
		return fail(err)
	}
	if zw != nil {
		if err = zw.Close(); err != nil {
			return fail(err)
		}
	}
	if err = buf.Flush(); err != nil {
		return fail(err)
	}
	if err = tmp.Close(); err != nil {
		return fail(err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fail(err)
	}
	return nil
}

// OpenFile opens path for reading, transparently decompressing .zst files.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, CompressedSuffix) {
		return f, nil
	}
	zr, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &zstdFile{Decoder: zr, file: f}, nil
}

type zstdFile struct {
	*zstd.Decoder
	file *os.File
}

func (z *zstdFile) Close() error {
	z.Decoder.Close()
	return z.file.Close()
}

// ReadJSON decodes a JSON document written by WriteFile.
func ReadJSON(path string) (*Document, error) {
	r, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &doc, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
