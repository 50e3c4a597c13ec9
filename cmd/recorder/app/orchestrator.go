package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/gyro2bb/internal/decoder"
	"github.com/roman-kulish/gyro2bb/internal/imu"
	"github.com/roman-kulish/gyro2bb/internal/storage"
	"github.com/roman-kulish/gyro2bb/internal/telemetry"
)

// WithMaxBatchSize sets the maximum number of samples handed to the store in
// a single call.
func WithMaxBatchSize(size int) func(*Orchestrator) {
	return func(o *Orchestrator) {
		if size > 0 {
			o.maxBatchSize = size
		}
	}
}

type input struct {
	name        string
	src         *decoder.Source
	orientation *string
	recordingID int64
	stored      int
}

type batch struct {
	input   *input
	samples []telemetry.Sample
}

// Orchestrator imports several inputs concurrently: every input is read on its
// own goroutine, while a single goroutine writes the batches to the store.
type Orchestrator struct {
	inputs []*input

	logger *slog.Logger
	store  storage.Store

	maxBatchSize int

	wg      sync.WaitGroup
	cancel  context.CancelFunc
	errOnce sync.Once
	err     error
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(store storage.Store, logger *slog.Logger, options ...func(*Orchestrator)) *Orchestrator {
	o := Orchestrator{
		logger:       logger,
		store:        store,
		maxBatchSize: defaultMaxBatchSize,
	}

	for _, option := range options {
		option(&o)
	}

	return &o
}

// AddInput opens and decodes the input described by config. Disabled inputs
// are skipped.
func (o *Orchestrator) AddInput(ctx context.Context, config *InputConfig) error {
	if !config.Enabled {
		return nil
	}
	for _, in := range o.inputs {
		if in.name == config.Name {
			return fmt.Errorf("input %s already exists", config.Name)
		}
	}

	src, err := decoder.Open(ctx, config.Path)
	if err != nil {
		return err
	}

	orientation := config.IMUOrientation
	if orientation == nil {
		orientation = src.IMUOrientation()
	}
	if _, err = imu.ParseOrientation(orientation); err != nil {
		return errors.Join(fmt.Errorf("input %s: %w", config.Name, err), src.Close())
	}

	o.inputs = append(o.inputs, &input{
		name:        config.Name,
		src:         src,
		orientation: orientation,
	})

	o.logger.Info("input added",
		slog.String("name", config.Name),
		slog.String("format", src.Format.String()),
		slog.String("size", humanize.Bytes(uint64(max(src.Size, 0)))))
	return nil
}

// Run creates a recording per input and stores their samples. It returns the
// first error encountered, after which the remaining work is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	if len(o.inputs) == 0 {
		return fmt.Errorf("no inputs to record")
	}

	for _, in := range o.inputs {
		model := in.src.CameraModel()
		id, err := o.store.CreateRecording(ctx, &storage.Recording{
			SourceName:     in.name,
			CameraType:     in.src.CameraType(),
			CameraModel:    model,
			IMUOrientation: in.orientation,
		})
		if err != nil {
			return fmt.Errorf("creating recording for input %s: %w", in.name, err)
		}

		in.recordingID = id
	}

	ctx, o.cancel = context.WithCancel(ctx)
	defer o.cancel()

	startGate := make(chan struct{})
	batches := make(chan batch, len(o.inputs))
	done := make(chan struct{})

	go func() {
		defer close(done)
		o.handleBatches(ctx, batches)
	}()

	for _, in := range o.inputs {
		o.wg.Add(1)
		go o.readInput(ctx, in, batches, startGate)
	}

	close(startGate) // Start the reading goroutines

	o.wg.Wait()
	close(batches) // Let the writer drain and exit
	<-done

	if o.err != nil {
		return o.err
	}

	for _, in := range o.inputs {
		o.logger.Info("input recorded",
			slog.String("name", in.name),
			slog.Int64("recordingID", in.recordingID),
			slog.String("samples", humanize.Comma(int64(in.stored))))
	}
	return nil
}

// Close releases the inputs.
func (o *Orchestrator) Close() error {
	var errs []error
	for _, in := range o.inputs {
		errs = append(errs, in.src.Close())
	}
	return errors.Join(errs...)
}

func (o *Orchestrator) fail(err error) {
	o.errOnce.Do(func() {
		o.err = err
		o.cancel() // signal to other goroutines about fatal
	})
}

func (o *Orchestrator) readInput(ctx context.Context, in *input, batches chan<- batch, startGate chan struct{}) {
	defer o.wg.Done()

	<-startGate

	samples, err := in.src.Samples(ctx)
	if err != nil {
		o.fail(fmt.Errorf("reading input %s: %w", in.name, err))
		return
	}
	defer samples.Close()

	buf := make([]telemetry.Sample, 0, o.maxBatchSize)
	for samples.Next(ctx) {
		buf = append(buf, *samples.Current())
		if len(buf) < o.maxBatchSize {
			continue
		}

		if !o.send(ctx, batches, batch{input: in, samples: buf}) {
			return
		}
		buf = make([]telemetry.Sample, 0, o.maxBatchSize)
	}
	if err = samples.Error(); err != nil {
		o.fail(fmt.Errorf("reading input %s: %w", in.name, err))
		return
	}

	if len(buf) > 0 {
		o.send(ctx, batches, batch{input: in, samples: buf})
	}
}

func (o *Orchestrator) send(ctx context.Context, batches chan<- batch, b batch) bool {
	select {
	case batches <- b:
		return true
	case <-ctx.Done():
		o.fail(ctx.Err())
		return false
	}
}

func (o *Orchestrator) handleBatches(ctx context.Context, batches <-chan batch) {
	for b := range batches {
		if err := ctx.Err(); err != nil {
			o.fail(err)
			continue // drain
		}

		if err := o.store.StoreSamples(ctx, b.input.recordingID, b.samples); err != nil {
			o.fail(fmt.Errorf("storing samples of input %s: %w", b.input.name, err))
			continue
		}

		b.input.stored += len(b.samples)
		o.logger.Debug("batch stored",
			slog.String("input", b.input.name),
			slog.Int("size", len(b.samples)))
	}
}
