/*
Copyright © 2026 the WERP authors.
This file is part of WERP.

WERP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

WERP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with WERP.  If not, see <http://www.gnu.org/licenses/>.
*/

package werputil

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/google/go-cloud/blob"
	"github.com/google/go-cloud/blob/fileblob"
	"github.com/google/go-cloud/blob/gcsblob"
	"github.com/google/go-cloud/blob/s3blob"
	"github.com/google/go-cloud/gcp"
	"github.com/sirupsen/logrus"
)

// maybeDownload checks if the input is an existing local file.
// If not, and the path is a URL or blob storage location, it downloads
// the file to a temporary directory and returns the path to the
// downloaded file. Other paths are returned unchanged.
func maybeDownload(ctx context.Context, p string) (string, error) {
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		return p, nil
	}
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return downloadHTTP(p)
	}
	if IsBlob(p) {
		return downloadBlob(ctx, p)
	}
	return p, nil
}

// downloadHTTP downloads a file from the specified URL and returns
// the path to the downloaded file.
func downloadHTTP(p string) (string, error) {
	u, err := url.Parse(p)
	if err != nil {
		return p, fmt.Errorf("werputil: parsing download url '%s': %v", p, err)
	}
	Log.WithFields(logrus.Fields{"url": p}).Info("downloading input file")
	resp, err := http.Get(p)
	if err != nil {
		return p, fmt.Errorf("werputil: downloading '%s': %v", p, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return p, fmt.Errorf("werputil: downloading '%s': %s", p, resp.Status)
	}
	return saveTemp(path.Base(u.Path), resp.Body)
}

// IsBlob returns whether the given filename represents a blob.
// (i.e., if it starts with `gs://`, 's3://', or 'file://').
func IsBlob(p string) bool {
	return strings.HasPrefix(p, "gs://") || strings.HasPrefix(p, "s3://") || strings.HasPrefix(p, "file://")
}

// OpenBucket returns the blob storage bucket specified by bucketName,
// where bucketName must be in the format 'provider://name' where provider
// is the name of the storage provider and name is the name of the bucket.
// The currently accepted storage providers are "file" for the local filesystem
// (e.g., for testing), "gs" for Google Cloud Storage, and "s3" for AWS S3.
// For the "file" provider, name is the bucket directory; an absolute
// directory is given as in "file:///path/to/dir".
func OpenBucket(ctx context.Context, bucketName string) (*blob.Bucket, error) {
	u, err := url.Parse(bucketName)
	if err != nil {
		return nil, fmt.Errorf("werputil.OpenBucket: %v", err)
	}
	switch u.Scheme {
	case "file":
		return fileblob.NewBucket(u.Host + u.Path)
	case "gs":
		return gsBucket(ctx, u.Hostname())
	case "s3":
		return s3Bucket(ctx, u.Hostname())
	default:
		return nil, fmt.Errorf("werputil.OpenBucket: invalid provider %s", u.Scheme)
	}
}

func gsBucket(ctx context.Context, name string) (*blob.Bucket, error) {
	// See here for information on credentials:
	// https://cloud.google.com/docs/authentication/getting-started
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, name, c)
}

// s3Bucket opens an s3 storage bucket. It assumes the following
// environment variables are set: AWS_REGION, AWS_ACCESS_KEY_ID, and
// AWS_SECRET_ACCESS_KEY.
func s3Bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "ap-southeast-2"
	}
	c := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	}
	s, err := session.NewSession(c)
	if err != nil {
		return nil, err
	}
	return s3blob.OpenBucket(ctx, s, name)
}

// splitBlob splits a blob storage location into its bucket name and key.
// Files in a "file://" bucket are addressed relative to the directory
// holding them.
func splitBlob(p string) (bucket, key string, err error) {
	u, err := url.Parse(p)
	if err != nil {
		return "", "", err
	}
	if u.Scheme == "file" {
		dir, file := path.Split(u.Host + u.Path)
		return "file://" + dir, file, nil
	}
	return u.Scheme + "://" + u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// downloadBlob downloads the specified file from blob storage.
func downloadBlob(ctx context.Context, p string) (string, error) {
	bucketName, key, err := splitBlob(p)
	if err != nil {
		return p, fmt.Errorf("werputil: parsing blob location '%s': %v", p, err)
	}
	bucket, err := OpenBucket(ctx, bucketName)
	if err != nil {
		return p, fmt.Errorf("werputil: opening bucket for '%s': %v", p, err)
	}
	Log.WithFields(logrus.Fields{"bucket": bucketName, "key": key}).Info("downloading input file")
	r, err := bucket.NewReader(ctx, key)
	if err != nil {
		return p, fmt.Errorf("werputil: reading '%s': %v", p, err)
	}
	defer r.Close()
	return saveTemp(path.Base(key), r)
}

// saveTemp copies r to a file called name in a new temporary directory.
func saveTemp(name string, r io.Reader) (string, error) {
	dir, err := ioutil.TempDir("", "werp")
	if err != nil {
		return "", fmt.Errorf("werputil: creating temporary download directory: %v", err)
	}
	if name == "" || name == "/" || name == "." {
		name = "download.nc"
	}
	out := filepath.Join(dir, name)
	w, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("werputil: creating file for download: %v", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("werputil: saving download to %s: %v", out, err)
	}
	return out, w.Close()
}
