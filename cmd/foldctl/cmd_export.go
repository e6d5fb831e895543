/*
Copyright (C) 2023-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package main

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ulikunitz/xz"
)

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "package the log directory (active log, archive, view snapshots) as a .tar.xz",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = filepath.Base(filepath.Clean(rootDir)) + ".tar.xz"
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			xw, err := xz.NewWriter(f)
			if err != nil {
				return err
			}
			defer xw.Close()

			tw := tar.NewWriter(xw)
			defer tw.Close()

			err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				rel, err := filepath.Rel(rootDir, path)
				if err != nil {
					return err
				}

				info, err := d.Info()
				if err != nil {
					return err
				}
				hdr, err := tar.FileInfoHeader(info, "")
				if err != nil {
					return err
				}
				hdr.Name = rel

				if err := tw.WriteHeader(hdr); err != nil {
					return err
				}

				src, err := os.Open(path)
				if err != nil {
					return err
				}
				defer src.Close()

				_, err = io.Copy(tw, src)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Println("exported to", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file (default <dir>.tar.xz)")
	return cmd
}
