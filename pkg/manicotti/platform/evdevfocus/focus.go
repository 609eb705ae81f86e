// Package evdevfocus parks input-event routing on a scene-independent
// holder while a scene swap runs.
//
// A scene replacement destroys whatever object was reading input for the
// old scene. This package's Owner takes an exclusive grab on the
// configured evdev devices before the swap — so events pile up at the
// kernel instead of reaching handlers that are about to die — and
// releases the grab afterwards, restoring normal routing. The coordinator
// guarantees Restore runs even when the swap fails.
package evdevfocus

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/holoplot/go-evdev"

	"github.com/BrandonKowalski/manicotti/pkg/manicotti/internal"
)

// Owner relocates input-device routing for the devices at the given
// event paths. Satisfies the manicotti FocusOwner contract.
type Owner struct {
	paths []string

	mu      sync.Mutex
	devices []*evdev.InputDevice
	log     *slog.Logger
}

// New creates an owner over the given /dev/input/eventN paths.
func New(paths ...string) *Owner {
	return &Owner{
		paths: paths,
		log:   internal.GetInternalLogger(),
	}
}

// Relocate grabs every configured device exclusively. Devices that fail
// to open or grab are skipped with a warning; the swap proceeds without
// them. Calling Relocate while already relocated is a no-op.
func (o *Owner) Relocate() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.devices) > 0 {
		return nil
	}

	for _, path := range o.paths {
		dev, err := evdev.Open(path)
		if err != nil {
			o.log.Warn("focus: cannot open input device", "path", path, "error", err)
			continue
		}
		if err := dev.Grab(); err != nil {
			o.log.Warn("focus: cannot grab input device", "path", path, "error", err)
			dev.Close()
			continue
		}
		o.devices = append(o.devices, dev)
	}

	return nil
}

// Restore releases every held grab and closes the devices. Safe to call
// when nothing is held.
func (o *Owner) Restore() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var errs []error
	for _, dev := range o.devices {
		if err := dev.Ungrab(); err != nil {
			errs = append(errs, err)
		}
		if err := dev.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	o.devices = nil

	return errors.Join(errs...)
}
