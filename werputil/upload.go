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
	"os"
	"path"
	"path/filepath"

	"github.com/google/go-cloud/blob"
	"github.com/sirupsen/logrus"
)

// uploader redirects output files that are destined for blob storage
// to a local temporary directory and uploads them once they have been
// written.
type uploader struct {
	// files is a set of file path pairs. The first of each pair
	// is a local file path and the second is a blob storage
	// path where it should be uploaded to.
	files [][2]string
	dir   string
}

// maybeUpload checks whether the given output file path refers to
// a blob storage location. If it does, then a temporary file location
// is returned. The file will then be uploaded to blob storage when
// the upload method is run.
func (u *uploader) maybeUpload(p string) (string, error) {
	if !IsBlob(p) {
		return p, nil
	}
	if u.dir == "" {
		var err error
		u.dir, err = ioutil.TempDir("", "werp")
		if err != nil {
			return "", fmt.Errorf("werputil: creating temporary output directory: %v", err)
		}
	}
	local := filepath.Join(u.dir, path.Base(p))
	u.files = append(u.files, [2]string{local, p})
	return local, nil
}

// upload copies the redirected output files to blob storage.
func (u *uploader) upload(ctx context.Context) error {
	for _, files := range u.files {
		if err := uploadFile(ctx, files[0], files[1]); err != nil {
			return err
		}
		Log.WithFields(logrus.Fields{"file": files[1]}).Info("uploaded output file")
	}
	return nil
}

func uploadFile(ctx context.Context, local, dst string) error {
	r, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("werputil: opening file '%s' for upload: %s", local, err)
	}
	defer r.Close()
	bucketName, key, err := splitBlob(dst)
	if err != nil {
		return fmt.Errorf("werputil: parsing url '%s' for upload: %s", dst, err)
	}
	bucket, err := OpenBucket(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("werputil: opening bucket to upload file '%s': %s", dst, err)
	}
	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{})
	if err != nil {
		return fmt.Errorf("werputil: opening writer to upload file '%s': %s", dst, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("werputil: uploading file '%s' to '%s': %s", local, dst, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("werputil: uploading file '%s' to '%s': %s", local, dst, err)
	}
	return nil
}
