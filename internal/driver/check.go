package driver

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"dollar/internal/ast"
	"dollar/internal/diag"
	"dollar/internal/observ"
	"dollar/internal/parser"
	"dollar/internal/pipeline"
	"dollar/internal/source"
	"dollar/internal/trace"
)

// DefaultExtensions are the template file extensions checked when none are
// configured.
var DefaultExtensions = []string{".tmpl", ".dollar"}

// CheckOptions configures CheckDir.
type CheckOptions struct {
	Jobs           int      // <= 0 means GOMAXPROCS
	Extensions     []string // nil means DefaultExtensions
	MaxDiagnostics int
	NormalizeNFC   bool
	Cache          *DiskCache // nil disables caching
	Progress       pipeline.ProgressSink
}

// CheckResult is the outcome for one file of a directory check.
type CheckResult struct {
	Path   string
	FileID source.FileID // valid only when Loaded
	Loaded bool
	Doc    *ast.Document
	Err    error
	Bag    *diag.Bag
	Cached bool
	Timing *observ.Timer
}

// Failed reports whether the file did not validate.
func (r *CheckResult) Failed() bool {
	return r.Err != nil
}

// ListFiles returns the files under dir whose extension is in exts,
// sorted for deterministic order.
func ListFiles(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// скрытые каталоги (.git и т.п.) пропускаем
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if hasExtension(path, exts) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

func hasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// CheckDir validates every template file under dir in parallel. Each file
// runs its own scanner and parser; results keep the sorted file order.
// The returned error is only set when listing fails or ctx is cancelled;
// per-file failures are reported in the results.
func CheckDir(ctx context.Context, dir string, opts CheckOptions) (*source.FileSet, []CheckResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check")
	defer span.End("")
	tracer := trace.FromContext(ctx)

	files, err := ListFiles(dir, opts.Extensions)
	if err != nil {
		trace.Error(tracer, trace.ScopeDriver, "list", err)
		return nil, nil, err
	}
	span.WithExtra("files", strconv.Itoa(len(files)))

	fileSet := source.NewFileSetWithBase(dir)
	fileSet.SetNormalizeNFC(opts.NormalizeNFC)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// Загружаем всё заранее: FileSet не рассчитан на конкурентную запись.
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make([]error, len(files))
	loadTimes := make([]time.Duration, len(files))
	for i, path := range files {
		start := time.Now()
		fileIDs[i], loadErrors[i] = fileSet.Load(path)
		loadTimes[i] = time.Since(start)
		pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var hits, misses atomic.Int64
	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]CheckResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			started := time.Now()
			bag := diag.NewBag(opts.MaxDiagnostics)
			timer := observ.NewTimer()
			timer.Add("load", loadTimes[i], "")
			res := CheckResult{Path: path, Bag: bag, Timing: timer}

			if loadErr := loadErrors[i]; loadErr != nil {
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+loadErr.Error()))
				res.Err = loadErr
				results[i] = res
				pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: loadErr, Elapsed: time.Since(started)})
				return nil
			}

			file := fileSet.Get(fileIDs[i])
			res.FileID = file.ID
			res.Loaded = true
			fctx, fspan := trace.Start(gctx, trace.ScopeFile, "file:"+fileSet.DisplayPath(file.ID))

			stage := pipeline.StageParse
			key := CacheKey(file.Hash)
			var payload DocPayload
			found, cerr := opts.Cache.Get(key, &payload)
			if cerr != nil {
				trace.Error(tracer, trace.ScopeFile, "cache", cerr)
			}
			var (
				doc  *ast.Document
				verr *parser.Error
			)
			if found {
				hits.Add(1)
				stage = pipeline.StageCache
				res.Cached = true
				doc, verr = payload.restore(file.ID)
				if verr != nil {
					bag.Add(verr.Diagnostic())
				}
			} else {
				misses.Add(1)
				pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageScan, Status: pipeline.StatusWorking})
				doc, verr = validateFile(fctx, file, diag.BagReporter{Bag: bag}, timer)
				if opts.Cache != nil {
					var perr error
					if verr != nil {
						perr = opts.Cache.Put(key, payloadFromResult(path, nil, verr))
					} else {
						perr = opts.Cache.Put(key, payloadFromResult(path, doc, nil))
					}
					if perr != nil {
						trace.Error(tracer, trace.ScopeFile, "cache", perr)
					}
				}
			}

			res.Doc = doc
			evt := pipeline.Event{File: path, Stage: stage, Status: pipeline.StatusDone}
			if verr != nil {
				res.Err = verr
				evt.Status = pipeline.StatusError
				evt.Err = verr
				fspan.End(verr.Error())
			} else {
				fspan.End("")
			}
			results[i] = res
			evt.Elapsed = time.Since(started)
			pipeline.Emit(opts.Progress, evt)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			trace.Error(tracer, trace.ScopeDriver, "check", err)
		}
		return fileSet, results, err
	}

	if opts.Cache != nil {
		span.WithExtra("cache_hits", strconv.FormatInt(hits.Load(), 10)).
			WithExtra("cache_misses", strconv.FormatInt(misses.Load(), 10))
	}
	return fileSet, results, nil
}

// CheckSummary counts the outcomes of a directory check.
type CheckSummary struct {
	Files  int
	Failed int
	Cached int
}

// Summarize counts results.
func Summarize(results []CheckResult) CheckSummary {
	s := CheckSummary{Files: len(results)}
	for i := range results {
		if results[i].Failed() {
			s.Failed++
		}
		if results[i].Cached {
			s.Cached++
		}
	}
	return s
}

// MergeTimings sums per-file phase timings into one timer.
func MergeTimings(results []CheckResult) *observ.Timer {
	total := observ.NewTimer()
	for i := range results {
		total.Merge(results[i].Timing)
	}
	return total
}
