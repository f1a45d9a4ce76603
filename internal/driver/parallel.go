package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"macplugins/internal/diag"
	"macplugins/internal/fix"
	"macplugins/internal/pipeline"
	"macplugins/internal/source"
)

// ListFiles возвращает отсортированный список файлов с нужными расширениями.
// Скрытые каталоги (.git, .build) пропускаются.
func ListFiles(dir string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(extensions, filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ExpandDir expands every matching file under dir in parallel. Results are
// ordered by path. Per-file failures do not stop the other files; they are
// reported in FileResult.Err and aggregated into the returned error.
func ExpandDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []FileResult, error) {
	opts = opts.withDefaults()
	if opts.BaseDir == "" {
		opts.BaseDir = dir
	}
	log := zerolog.Ctx(ctx)

	files, err := ListFiles(dir, opts.Extensions)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", dir, err)
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// FileSet не потокобезопасен на запись: грузим всё заранее
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			continue
		}
		fileIDs[i] = fileID
	}

	display := make([]string, len(files))
	for i, path := range files {
		display[i] = pipeline.DisplayPath(path, opts.BaseDir)
	}
	pipeline.EmitQueued(opts.Progress, display)

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
				})
				results[i] = FileResult{Path: path, Bag: bag, Err: loadErr}
				pipeline.Emit(opts.Progress, pipeline.Event{File: display[i], Stage: pipeline.StageParse, Status: pipeline.StatusError, Err: loadErr})
				return nil
			}
			results[i] = expandOne(gctx, fileSet, fileIDs[i], display[i], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}

	var errs *multierror.Error
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", res.Path, res.Err))
		}
	}
	log.Debug().Int("files", len(files)).Int("failed", failed).Msg("directory expanded")
	return fileSet, results, errs.ErrorOrNil()
}

func expandOne(ctx context.Context, fileSet *source.FileSet, fileID source.FileID, name string, opts Options) FileResult {
	started := time.Now()
	pipeline.Emit(opts.Progress, pipeline.Event{File: name, Stage: pipeline.StageExpand, Status: pipeline.StatusWorking})

	res, err := ExpandFile(ctx, fileSet, fileID, opts)
	if err != nil {
		pipeline.Emit(opts.Progress, pipeline.Event{File: name, Stage: pipeline.StageExpand, Status: pipeline.StatusError, Err: err, Elapsed: time.Since(started)})
		bag := diag.NewBag(opts.MaxDiagnostics)
		return FileResult{Path: fileSet.Get(fileID).Path, FileID: fileID, Bag: bag, Err: err}
	}

	stage := pipeline.StageExpand
	if opts.Write && res.Changed {
		stage = pipeline.StageWrite
		pipeline.Emit(opts.Progress, pipeline.Event{File: name, Stage: stage, Status: pipeline.StatusWorking})
		if err := fix.WriteFile(res.Path, res.Output); err != nil {
			res.Err = err
			res.Bag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.IOWriteError,
				Message:  err.Error(),
			})
		}
	}

	status := pipeline.StatusDone
	if res.Err != nil || res.Bag.HasErrors() {
		status = pipeline.StatusError
	}
	pipeline.Emit(opts.Progress, pipeline.Event{
		File: name, Stage: stage, Status: status, Err: res.Err,
		Elapsed: time.Since(started), Cached: res.Cached,
	})
	return *res
}
