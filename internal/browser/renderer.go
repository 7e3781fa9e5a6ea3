package browser

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"lottie2video/internal/capture"
	"lottie2video/internal/logging"
	"lottie2video/internal/services"
	"lottie2video/internal/timeline"
)

const pngDataPrefix = "data:image/png;base64,"

// Options configure the headless browser.
type Options struct {
	// ExecPath is the Chrome/Chromium binary. Empty lets chromedp search.
	ExecPath string
	// LottieScript is the path to lottie.min.js.
	LottieScript string
	DisableGPU   bool
	// FrameTimeout bounds each load, seek, or readback.
	FrameTimeout time.Duration
}

// Renderer drives lottie-web's canvas renderer inside headless Chrome.
type Renderer struct {
	opts    Options
	ctx     context.Context
	cancel  context.CancelFunc
	inPoint int
	logger  *slog.Logger
}

var _ capture.Renderer = (*Renderer)(nil)

// New starts a browser. Close must be called to stop it.
func New(parent context.Context, opts Options, logger *slog.Logger) (*Renderer, error) {
	logger = logging.NewComponentLogger(logger, "browser")
	if strings.TrimSpace(opts.LottieScript) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "browser", "init", "lottie script path is empty", nil)
	}
	if opts.FrameTimeout <= 0 {
		opts.FrameTimeout = 30 * time.Second
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.DisableGPU {
		allocOpts = append(allocOpts, chromedp.DisableGPU)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			logger.Debug("chromedp", logging.String("detail", fmt.Sprintf(format, args...)))
		}),
	)
	r := &Renderer{
		opts: opts,
		ctx:  ctx,
		cancel: func() {
			ctxCancel()
			allocCancel()
		},
		logger: logger,
	}

	// The first Run launches the browser process.
	if err := chromedp.Run(ctx, chromedp.Navigate("about:blank")); err != nil {
		r.cancel()
		return nil, services.Wrap(services.ErrExternalTool, "browser", "launch", "start headless chrome", err)
	}
	logger.Debug("browser started", logging.String("exec_path", opts.ExecPath), logging.Bool("disable_gpu", opts.DisableGPU))
	return r, nil
}

// Close stops the browser.
func (r *Renderer) Close() error {
	if r == nil || r.cancel == nil {
		return nil
	}
	r.cancel()
	return nil
}

// Load injects lottie-web and builds a canvas animation of the given size.
// Resolves once lottie reports DOMLoaded.
func (r *Renderer) Load(ctx context.Context, doc []byte, canvas capture.Size) error {
	tl, err := timeline.Parse(doc)
	if err != nil {
		return err
	}
	script, err := os.ReadFile(r.opts.LottieScript)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "browser", "load", "read lottie script", err)
	}
	r.inPoint = tl.InPoint

	var ready bool
	err = r.run(ctx,
		chromedp.EmulateViewport(int64(canvas.Width), int64(canvas.Height)),
		chromedp.Evaluate(string(script)+"\n;true", nil),
		chromedp.Evaluate(loadExpression(doc, canvas), &ready, awaitPromise),
	)
	if err != nil {
		return err
	}
	if !ready {
		return errors.New("lottie animation did not report ready")
	}
	return nil
}

// SeekToFrame jumps to a document frame and renders it synchronously.
func (r *Renderer) SeekToFrame(ctx context.Context, frame int) error {
	var ok bool
	return r.run(ctx, chromedp.Evaluate(seekExpression(frame, r.inPoint), &ok))
}

// ReadPixels returns the current canvas as PNG bytes.
func (r *Renderer) ReadPixels(ctx context.Context) ([]byte, error) {
	var dataURL string
	if err := r.run(ctx, chromedp.Evaluate(`document.querySelector('#stage canvas').toDataURL('image/png')`, &dataURL)); err != nil {
		return nil, err
	}
	return decodeDataURL(dataURL)
}

// run executes actions on the browser tab with the frame timeout, also
// stopping when the caller's ctx is cancelled.
func (r *Renderer) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(r.ctx, r.opts.FrameTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("browser timed out after %s: %w", r.opts.FrameTimeout, err)
		}
		return err
	}
	return nil
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// seekExpression converts a document frame to lottie-web's numbering, which
// counts from the animation's in point.
func seekExpression(frame, inPoint int) string {
	return fmt.Sprintf("window.anim.goToAndStop(%d, true); true", frame-inPoint)
}

func loadExpression(doc []byte, canvas capture.Size) string {
	return fmt.Sprintf(`new Promise((resolve) => {
  document.body.style.margin = '0';
  document.body.style.background = 'transparent';
  const old = document.getElementById('stage');
  if (old) { old.remove(); }
  const stage = document.createElement('div');
  stage.id = 'stage';
  stage.style.width = '%dpx';
  stage.style.height = '%dpx';
  document.body.appendChild(stage);
  window.anim = lottie.loadAnimation({
    container: stage,
    renderer: 'canvas',
    loop: false,
    autoplay: false,
    animationData: %s,
    rendererSettings: { clearCanvas: true, preserveAspectRatio: 'xMidYMid meet' }
  });
  window.anim.addEventListener('DOMLoaded', () => resolve(true));
  if (window.anim.isLoaded) { resolve(true); }
})`, canvas.Width, canvas.Height, doc)
}

func decodeDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, pngDataPrefix) {
		return nil, fmt.Errorf("unexpected canvas data url prefix %.32q", dataURL)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, pngDataPrefix))
	if err != nil {
		return nil, fmt.Errorf("decode canvas png: %w", err)
	}
	return data, nil
}
