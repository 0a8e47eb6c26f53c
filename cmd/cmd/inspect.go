// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/ostafen/mbrscope/internal/disk"
	"github.com/ostafen/mbrscope/internal/env"
	"github.com/ostafen/mbrscope/internal/image"
	"github.com/ostafen/mbrscope/pkg/dfxml"
	fmtutil "github.com/ostafen/mbrscope/pkg/util/format"
	osutil "github.com/ostafen/mbrscope/pkg/util/os"
	"github.com/spf13/cobra"
)

func DefineInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <device|image>...",
		Short: "Decode the MBR partition table of a disk or image file",
		Long: `The 'inspect' command reads the first sector (LBA 0) of each disk, raw image or compressed image
(gzip, zlib, bzip2, zstd, snappy, s2, zip) and prints its primary partition table.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunInspect,
	}

	cmd.Flags().Uint32("sector-size", disk.DefaultSectorSize, "logical sector size used to compute partition offsets")
	cmd.Flags().String("format", "auto", "image format (auto, raw, gzip, zlib, bzip2, zstd, snappy, s2, zip)")
	cmd.Flags().BoolP("all", "a", false, "show empty partition slots")
	cmd.Flags().Bool("boot-code", false, "print a hex dump of the boot code")
	cmd.Flags().StringP("output", "o", "", "write a DFXML partition report to the specified file")

	return cmd
}

type inspectOptions struct {
	SectorSize   uint32
	Format       image.Format
	ShowEmpty    bool
	DumpBootCode bool
	ReportFile   string
}

func parseInspectOptions(cmd *cobra.Command, args []string) (inspectOptions, error) {
	sectorSize, _ := cmd.Flags().GetUint32("sector-size")
	formatName, _ := cmd.Flags().GetString("format")
	showEmpty, _ := cmd.Flags().GetBool("all")
	dumpBootCode, _ := cmd.Flags().GetBool("boot-code")
	reportFile, _ := cmd.Flags().GetString("output")

	if !disk.ValidSectorSize(sectorSize) {
		return inspectOptions{}, fmt.Errorf("invalid sector size %d: must be a power of two between 512 and 4096", sectorSize)
	}

	format, err := image.ParseFormat(formatName)
	if err != nil {
		return inspectOptions{}, err
	}

	if reportFile != "" && len(args) > 1 {
		return inspectOptions{}, errors.New("--output can only be used with a single image")
	}

	return inspectOptions{
		SectorSize:   sectorSize,
		Format:       format,
		ShowEmpty:    showEmpty,
		DumpBootCode: dumpBootCode,
		ReportFile:   reportFile,
	}, nil
}

func RunInspect(cmd *cobra.Command, args []string) error {
	opts, err := parseInspectOptions(cmd, args)
	if err != nil {
		return err
	}

	logger, logCloser, err := setupLogger(cmd)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	out := cmd.OutOrStdout()

	failed := 0
	for i, arg := range args {
		path := disk.NormalizeVolumePath(arg)

		if i > 0 {
			fmt.Fprintln(out)
		}

		res, err := inspectImage(path, opts.Format, logger)
		if err != nil {
			failed++
			logger.Error("unable to inspect image", "path", path, "err", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "[ERROR] %s: %v\n", path, err)
			continue
		}

		if err := printInspection(out, res, opts); err != nil {
			return err
		}

		if opts.ReportFile != "" {
			if err := writeReport(opts.ReportFile, res, opts.SectorSize); err != nil {
				return err
			}
			fmt.Fprintf(out, "[INFO] Report saved to: \t%s\n", absPath(opts.ReportFile))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images could not be decoded", failed, len(args))
	}
	return nil
}

type inspection struct {
	Path   string
	Format image.Format
	Size   int64
	MBR    *disk.MasterBootRecord
}

func inspectImage(path string, format image.Format, logger *slog.Logger) (*inspection, error) {
	src, err := image.OpenFormat(path, format)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	logger.Debug("opened image", "path", path, "format", src.Format(), "size", src.Size())

	sector, err := src.ReadBootSector()
	if err != nil {
		return nil, err
	}

	mbr, err := disk.DecodeMBR(sector)
	if err != nil {
		return nil, err
	}

	logger.Info("decoded MBR", "path", path, "used_slots", len(mbr.UsedPartitions(disk.DefaultSectorSize)))

	return &inspection{
		Path:   path,
		Format: src.Format(),
		Size:   src.Size(),
		MBR:    mbr,
	}, nil
}

type partitionRow struct {
	Slot     int
	Type     disk.PartitionType
	StartLBA uint32
	Offset   uint64
}

func printInspection(w io.Writer, res *inspection, opts inspectOptions) error {
	used := res.MBR.UsedPartitions(opts.SectorSize)

	fmt.Fprintf(w, "[INFO] Source: \t%s\n", absPath(res.Path))
	fmt.Fprintf(w, "[INFO] Format: \t%s (%s)\n", res.Format, fmtutil.FormatBytes(uint64(max(res.Size, 0))))
	fmt.Fprintf(w, "[INFO] Partitions: \t%d of %d slots used\n", len(used), disk.PartitionEntries)

	if res.MBR.IsProtective() {
		fmt.Fprintln(w, "[WARN] Protective MBR found: the disk is partitioned with GPT, which is not decoded")
	}

	rows := make([]partitionRow, 0, disk.PartitionEntries)
	for slot, p := range res.MBR.Partitions {
		if p.IsEmpty() && !opts.ShowEmpty {
			continue
		}
		rows = append(rows, partitionRow{
			Slot:     slot,
			Type:     p.TypeCode,
			StartLBA: p.LBABegin,
			Offset:   p.Offset(opts.SectorSize),
		})
	}

	if len(rows) > 0 {
		fmt.Fprintln(w)
		if err := printPartitionTable(w, rows); err != nil {
			return err
		}
	}

	if opts.DumpBootCode {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "[INFO] Boot code:")
		fmt.Fprint(w, hex.Dump(res.MBR.BootCode[:]))
	}
	return nil
}

func printPartitionTable(w io.Writer, rows []partitionRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tTYPE\tDESC\tSTART LBA\tOFFSET")

	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t0x%02X\t%s\t%d\t%s\n",
			r.Slot,
			uint8(r.Type),
			r.Type,
			r.StartLBA,
			fmtutil.FormatBytes(r.Offset),
		)
	}
	return tw.Flush()
}

func writeReport(reportFile string, res *inspection, sectorSize uint32) error {
	if err := osutil.EnsureDir(filepath.Dir(reportFile)); err != nil {
		return err
	}

	f, err := os.Create(reportFile)
	if err != nil {
		return fmt.Errorf("failed to create report file %q: %w", reportFile, err)
	}
	defer f.Close()

	w := dfxml.NewDFXMLWriter(f)

	err = w.WriteHeader(dfxml.DFXMLHeader{
		XmlOutput: dfxml.XmlOutputVersion,
		Metadata:  dfxml.DefaultMetadata,
		Creator: dfxml.Creator{
			Package:              env.AppName,
			Version:              env.Version,
			ExecutionEnvironment: dfxml.GetExecEnv(),
		},
		Source: dfxml.Source{
			ImageFilename: absPath(res.Path),
			ImageFormat:   res.Format.String(),
			SectorSize:    int(sectorSize),
			ImageSize:     uint64(max(res.Size, 0)),
		},
	})
	if err != nil {
		return err
	}

	for _, p := range res.MBR.UsedPartitions(sectorSize) {
		err := w.WriteVolume(dfxml.Volume{
			Offset:          p.Offset,
			PartitionIndex:  p.Slot,
			PartitionOffset: p.Offset,
			StartLBA:        p.StartLBA,
			BlockSize:       sectorSize,
			FType:           int(p.Type),
			FTypeStr:        p.Type.String(),
		})
		if err != nil {
			return err
		}
	}

	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

func absPath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
