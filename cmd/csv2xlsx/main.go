// Command csv2xlsx converts CSV files into the sheets of one .xlsx workbook.
//
//	csv2xlsx [flags] out.xlsx [sheet:]in.csv...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/dustin/go-humanize"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/text/encoding"

	"github.com/adnsv/go-xlsxwriter/xl"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		logger.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

type config struct {
	charset        string
	constantMemory bool
	date1904       bool
	future         bool
	tmpDir         string
	widths         bool
}

func Main() error {
	var cfg config
	fs := flag.NewFlagSet("csv2xlsx", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	fs.StringVar(&cfg.charset, "charset", defaultCharset(), "csv charset name")
	fs.BoolVar(&cfg.constantMemory, "constant-memory", false, "stream rows through temporary files")
	fs.BoolVar(&cfg.date1904, "1904", false, "use the 1904 date system")
	fs.BoolVar(&cfg.future, "future-functions", false, "prefix newer Excel functions in formulas")
	fs.StringVar(&cfg.tmpDir, "tmpdir", "", "directory for temporary files")
	fs.BoolVar(&cfg.widths, "autowidth", true, "size columns to the header text")
	_ = fs.String("config", "", "config file (optional)")

	app := ffcli.Command{
		Name:       "csv2xlsx",
		ShortUsage: "csv2xlsx [flags] out.xlsx [sheet:]in.csv...",
		FlagSet:    fs,
		Options: []ff.Option{
			ff.WithEnvVarPrefix("CSV2XLSX"),
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ff.PlainParser),
			ff.WithAllowMissingConfigFile(true),
		},
		Exec: func(ctx context.Context, args []string) error {
			if len(args) < 1 {
				return flag.ErrHelp
			}
			return convert(ctx, cfg, args[0], args[1:])
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.ParseAndRun(ctx, os.Args[1:])
}

func convert(ctx context.Context, cfg config, out string, inputs []string) (err error) {
	enc, err := getEncoding(cfg.charset)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	wb := xl.NewWorkbook(xl.Options{
		ConstantMemory:  cfg.constantMemory,
		Date1904:        cfg.date1904,
		FutureFunctions: cfg.future,
		TmpDir:          cfg.tmpDir,
		Logger:          logger,
	})
	defer func() {
		// closing releases the temporary row files
		if err != nil {
			wb.WriteTo(io.Discard)
		}
	}()
	header, err := wb.AddFormat(xl.Format{Font: xl.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, fn := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := fmt.Sprintf("Sheet%d", i+1)
		if j := strings.IndexByte(fn, ':'); j > 0 && !isDrive(fn, j) {
			name, fn = fn[:j], fn[j+1:]
		} else if fn != "" && fn != "-" {
			name = strings.TrimSuffix(filepath.Base(fn), filepath.Ext(fn))
		}
		sheet, err := wb.AddSheet(name)
		if err != nil {
			return err
		}
		n, err := copyFile(ctx, sheet, header, cfg, fn, enc)
		if err != nil {
			return fmt.Errorf("%q: %w", fn, err)
		}
		logger.Info("sheet done", "sheet", name, "file", fn, "rows", n)
	}

	var size int64
	if out == "-" {
		if size, err = wb.WriteTo(os.Stdout); err != nil {
			return err
		}
	} else {
		if err := wb.SaveAs(out); err != nil {
			return err
		}
		if fi, err := os.Stat(out); err == nil {
			size = fi.Size()
		}
	}
	logger.Info("written", "file", out, "size", humanize.Bytes(uint64(size)))
	return nil
}

// isDrive reports whether the colon at i belongs to a Windows drive letter.
func isDrive(fn string, i int) bool {
	return i == 1 && len(fn) > 2 && (fn[2] == '\\' || fn[2] == '/')
}

func copyFile(ctx context.Context, sheet *xl.Sheet, header xl.StyleID, cfg config, fn string, enc encoding.Encoding) (int, error) {
	cr, err := openCSV(fn, enc)
	if err != nil {
		return 0, err
	}
	defer cr.Close()

	row, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, err
	}
	for col, s := range row {
		if err := sheet.WriteString(0, col, s, header); err != nil {
			return 0, err
		}
		if cfg.widths {
			if err := sheet.SetColumnWidth(col, col, min(max(float64(len(s))+2, xl.DefaultColumnWidth), 80)); err != nil {
				return 0, err
			}
		}
	}

	n := 1
	values := make([]any, 0, len(row))
	for {
		if n%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}
		row, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return n, err
		}
		values = values[:0]
		for _, s := range row {
			values = append(values, cellValue(s))
		}
		if err := sheet.AppendRow(values...); err != nil {
			logger.Warn("row", "sheet", sheet.Name, "row", n+1, "error", err)
		}
		n++
	}
	logger.Debug("copied", "file", fn, "rows", n)
	return n, nil
}

// cellValue turns numeric fields into numbers. Fields with leading zeros
// such as ids and zip codes stay text.
func cellValue(s string) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	if len(t) > 1 && t[0] == '0' && t[1] != '.' {
		return s
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || strings.ContainsAny(t, "xXpP_") {
		return s
	}
	return f
}
