package fragment

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/colinmarc/hdfs/v2"
	"github.com/gear6io/hivebridge/pkg/errors"
)

// FileLister enumerates the data files under a partition location
type FileLister interface {
	ListFiles(ctx context.Context, location string) ([]string, error)
}

// HDFSLister lists partition directories on HDFS
type HDFSLister struct {
	client *hdfs.Client
}

// NewHDFSLister connects to the given namenodes as user
func NewHDFSLister(nameNodes []string, user string) (*HDFSLister, error) {
	if len(nameNodes) == 0 {
		return nil, errors.New(FragmentListFailed, "at least one namenode is required", nil)
	}
	client, err := hdfs.NewClient(hdfs.ClientOptions{
		Addresses: nameNodes,
		User:      user,
	})
	if err != nil {
		return nil, errors.New(FragmentListFailed, "failed to create HDFS client", err).
			AddContext("namenodes", strings.Join(nameNodes, ","))
	}
	return &HDFSLister{client: client}, nil
}

// ListFiles returns the visible files directly under location
func (l *HDFSLister) ListFiles(ctx context.Context, location string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := hdfsPath(location)
	if err != nil {
		return nil, err
	}
	infos, err := l.client.ReadDir(dir)
	if err != nil {
		return nil, errors.New(FragmentListFailed, "failed to list HDFS directory", err).AddContext("location", location)
	}

	var files []string
	for _, info := range infos {
		if isDataFile(info.Name(), info.IsDir()) {
			files = append(files, path.Join(dir, info.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Close closes the HDFS connection
func (l *HDFSLister) Close() error {
	return l.client.Close()
}

// LocalLister lists partition directories on the local filesystem
type LocalLister struct{}

// ListFiles returns the visible files directly under location
func (LocalLister) ListFiles(ctx context.Context, location string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := strings.TrimPrefix(location, "file://")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.New(FragmentListFailed, "failed to list directory", err).AddContext("location", location)
	}

	var files []string
	for _, e := range entries {
		if isDataFile(e.Name(), e.IsDir()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// hdfsPath strips the scheme and authority from an hdfs:// location
func hdfsPath(location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", errors.New(FragmentListFailed, "invalid location", err).AddContext("location", location)
	}
	switch u.Scheme {
	case "", "hdfs":
	default:
		return "", errors.Newf(FragmentListFailed, "unsupported location scheme %q", u.Scheme).AddContext("location", location)
	}
	if u.Path == "" {
		return "/", nil
	}
	return u.Path, nil
}

// Hidden and bookkeeping files (_SUCCESS, .crc) are not data
func isDataFile(name string, isDir bool) bool {
	if isDir {
		return false
	}
	return !strings.HasPrefix(name, "_") && !strings.HasPrefix(name, ".")
}
