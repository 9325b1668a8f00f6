package driver

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"glean/internal/check"
	"glean/internal/config"
	"glean/internal/diag"
	"glean/internal/extract"
	"glean/internal/observ"
	"glean/internal/source"
	"glean/internal/textcontent"
	"glean/internal/trace"
)

// Request describes one check run.
type Request struct {
	Paths          []string
	Config         config.Config
	Jobs           int // <= 0: GOMAXPROCS
	MaxDiagnostics int // на файл; <= 0 без ограничения
	// KeepContents keeps extracted contents in FileResult.
	KeepContents bool
	// ExtractOnly stops after extraction; implies KeepContents and skips
	// the cache.
	ExtractOnly bool
	Sink         Sink
	Cache        *DiskCache
	Timer        *observ.Timer
	// Version is mixed into cache keys.
	Version string
}

// FileResult holds the outcome for one file.
type FileResult struct {
	Path     string
	FileID   source.FileID
	Bag      *diag.Bag
	Contents []*textcontent.Content
	Cached   bool
}

// Stats counts what a run did.
type Stats struct {
	Files       int
	Contents    int
	Diagnostics int
	CacheHits   int
	CacheMisses int
}

// Result aggregates a run.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	Stats   Stats
}

// Bag merges the per-file bags in file order.
func (r *Result) Bag(maxDiagnostics int) *diag.Bag {
	total := 0
	for _, f := range r.Files {
		total += f.Bag.Len()
	}
	if maxDiagnostics <= 0 || maxDiagnostics > total {
		maxDiagnostics = total
	}
	out := diag.NewBag(maxDiagnostics)
	for _, f := range r.Files {
		out.Merge(f.Bag)
	}
	return out
}

type pipeline struct {
	fs          *source.FileSet
	domains     []textcontent.Domain
	minWords    int
	runner      *check.Runner
	fingerprint []byte
	req         *Request

	contents, hits, misses atomic.Int64
}

func newPipeline(fs *source.FileSet, req *Request) (*pipeline, error) {
	domains, err := req.Config.Domains()
	if err != nil {
		return nil, err
	}
	settings, err := req.Config.CheckSettings()
	if err != nil {
		return nil, err
	}
	runner, err := check.Build(settings)
	if err != nil {
		return nil, err
	}
	// [output] на результат не влияет и в ключ кеша не входит
	keyed := req.Config
	keyed.Output = config.OutputConfig{}
	encoded, err := keyed.Encode()
	if err != nil {
		return nil, fmt.Errorf("fingerprint config: %w", err)
	}
	return &pipeline{
		fs:          fs,
		domains:     domains,
		minWords:    req.Config.Check.MinLiteralWords,
		runner:      runner,
		fingerprint: Fingerprint(req.Version, encoded),
		req:         req,
	}, nil
}

// Check discovers files, then extracts and checks them in parallel. Per-file
// problems become diagnostics in that file's bag; the returned error is
// reserved for invalid requests and cancellation.
func Check(ctx context.Context, req Request) (*Result, error) {
	span, ctx := trace.Start(ctx, trace.ScopeDriver, "check")
	defer span.End("")

	idx := req.Timer.Begin("discover")
	files, err := Discover(req.Paths, DiscoverOptions{
		Extensions: req.Config.Check.Extensions,
		Exclude:    req.Config.Check.Exclude,
		Base:       req.Config.Root(),
	})
	req.Timer.End(idx, strconv.Itoa(len(files))+" files")
	if err != nil {
		return nil, err
	}
	span.WithExtra("files", strconv.Itoa(len(files)))

	fileSet := source.NewFileSetWithBase(baseDir(req.Config))
	p, err := newPipeline(fileSet, &req)
	if err != nil {
		return nil, err
	}

	for _, path := range files {
		emit(req.Sink, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// Загрузка последовательная: FileSet не потокобезопасен на запись
	idx = req.Timer.Begin("load")
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make([]error, len(files))
	for i, path := range files {
		fileIDs[i], loadErrors[i] = fileSet.Load(path)
	}
	req.Timer.End(idx, "")

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.checkFile(gctx, path, fileIDs[i], loadErrors[i])
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{FileSet: fileSet, Files: results}
	result.Stats = Stats{
		Files:       len(files),
		Contents:    int(p.contents.Load()),
		CacheHits:   int(p.hits.Load()),
		CacheMisses: int(p.misses.Load()),
	}
	for _, f := range results {
		result.Stats.Diagnostics += f.Bag.Len()
	}
	span.WithExtra("diagnostics", strconv.Itoa(result.Stats.Diagnostics))
	return result, nil
}

func baseDir(cfg config.Config) string {
	if root := cfg.Root(); root != "" {
		return root
	}
	return "."
}

func (p *pipeline) newBag() *diag.Bag {
	limit := p.req.MaxDiagnostics
	if limit <= 0 {
		limit = 1 << 20
	}
	return diag.NewBag(limit)
}

// checkFile runs extract and check for one file. Only cancellation is
// returned as an error.
func (p *pipeline) checkFile(ctx context.Context, path string, id source.FileID, loadErr error) (FileResult, error) {
	bag := p.newBag()
	res := FileResult{Path: path, FileID: id, Bag: bag}
	sink := p.req.Sink

	if loadErr != nil {
		bag.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.Span{}, "failed to load "+path+": "+loadErr.Error()))
		emit(sink, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr})
		return res, nil
	}

	span, ctx := trace.Start(ctx, trace.ScopeFile, "file")
	span.WithExtra("path", path)
	defer span.End("")

	file := p.fs.Get(id)
	var key Digest
	if p.req.Cache != nil && !p.req.ExtractOnly {
		key = combineDigest(p.fingerprint, path, file.Content)
		var payload DiskPayload
		ok, err := p.req.Cache.Get(key, &payload)
		if err != nil {
			bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: id}, err.Error()))
		}
		if ok && !p.req.KeepContents {
			p.hits.Add(1)
			p.contents.Add(int64(payload.Contents))
			diskPayloadToBag(&payload, id, bag)
			res.Cached = true
			span.WithExtra("cache", "hit")
			emit(sink, Event{File: path, Stage: StageCache, Status: StatusDone, Findings: bag.Len()})
			return res, nil
		}
		p.misses.Add(1)
	}

	started := time.Now()
	emit(sink, Event{File: path, Stage: StageExtract, Status: StatusWorking})
	reporter := &diag.BagReporter{Bag: bag}
	ex := extract.New(p.fs, extract.Options{
		Domains:         p.domains,
		MinLiteralWords: p.minWords,
		Reporter:        reporter,
	})
	contents, err := ex.Extract(ctx, id)
	p.req.Timer.Record("extract", time.Since(started))
	if err != nil {
		bag.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.Span{File: id}, err.Error()))
		emit(sink, Event{File: path, Stage: StageExtract, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return res, nil
	}
	p.contents.Add(int64(len(contents)))
	if p.req.ExtractOnly {
		res.Contents = contents
		emit(sink, Event{File: path, Stage: StageExtract, Status: StatusDone, Elapsed: time.Since(started)})
		return res, nil
	}

	checkStarted := time.Now()
	emit(sink, Event{File: path, Stage: StageCheck, Status: StatusWorking})
	if _, err := p.runner.Run(ctx, contents, reporter); err != nil {
		return res, err
	}
	p.req.Timer.Record("check", time.Since(checkStarted))
	bag.Sort()
	bag.Dedup()

	if p.req.KeepContents {
		res.Contents = contents
	}
	if p.req.Cache != nil && !res.Cached {
		if payload, ok := bagToDiskPayload(path, id, len(contents), bag.Items()); ok {
			if err := p.req.Cache.Put(key, payload); err != nil {
				bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: id}, "cache write: "+err.Error()))
			}
		}
	}
	emit(sink, Event{File: path, Stage: StageCheck, Status: StatusDone, Elapsed: time.Since(started), Findings: bag.Len()})
	return res, nil
}
