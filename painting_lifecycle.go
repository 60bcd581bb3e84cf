package painting

import (
	"image"
)

// OnPause backs the whole canvas up into a slice and releases every
// device resource. An uncommitted stroke is dropped. done, if not nil,
// runs on the render context afterwards.
func (painting *Painting) OnPause(done func()) {
	painting.perform(func() {
		if done != nil {
			defer done()
		}
		if painting.paused.Load() {
			return
		}

		if painting.canvas != nil && !painting.closed {
			painting.backup = painting.captureSlice(painting.Bounds())
		}
		painting.cleanResources()
		painting.discardStroke()
		painting.paused.Store(true)
		painting.logger().WithField("backup", painting.backup != nil).Info("painting paused")
	})
}

// OnResume recreates the device resources and restores the backup made
// by OnPause.
func (painting *Painting) OnResume() {
	painting.perform(func() {
		if !painting.paused.Load() {
			return
		}
		painting.paused.Store(false)

		if painting.shadersInstalled {
			painting.shaders = SetupShaders(painting.device)
		}
		if !painting.ensureResources() {
			return
		}

		painting.restoreBackup()

		painting.logger().Info("painting resumed")
		painting.notifyContentChanged(image.Rectangle{})
	})
}

// restoreBackup uploads the pause backup and then the restores queued
// while paused, without notifying for each of them.
func (painting *Painting) restoreBackup() {
	release := painting.suppressChanges()
	defer release()

	backup := painting.backup
	painting.backup = nil
	pending := painting.pendingRestores
	painting.pendingRestores = nil

	if backup != nil {
		defer backup.Release()
		painting.restoreSlice(backup)
	}
	for _, slice := range pending {
		painting.restoreSlice(slice)
	}
}

// IsPaused reports whether the painting holds no device resources
func (painting *Painting) IsPaused() bool {
	return painting.paused.Load()
}

// Close releases every device resource and stops the render context if
// the painting created it. Calling Close again does nothing.
func (painting *Painting) Close() {
	painting.closeOnce.Do(func() {
		painting.perform(func() {
			painting.cleanResources()
			painting.discardStroke()
			if painting.backup != nil {
				painting.backup.Release()
				painting.backup = nil
			}
			painting.pendingRestores = nil
			painting.closed = true
			painting.logger().Info("painting closed")
		})

		if painting.ownsContext {
			painting.context.Close()
		} else {
			painting.context.Sync()
		}
	})
}

// ensureResources creates the framebuffer, the canvas texture from the
// retained bitmap and the blank mask when they are missing.
func (painting *Painting) ensureResources() bool {
	if painting.closed || painting.paused.Load() {
		return false
	}

	var err error
	if painting.framebuffer == nil {
		if painting.framebuffer, err = painting.device.NewFramebuffer(); err != nil {
			painting.framebuffer = nil
			painting.logger().WithError(err).Warn("framebuffer not created")
			return false
		}
	}
	size := painting.Size()
	if painting.canvas == nil {
		if painting.canvas, err = painting.device.NewTexture(size.X, size.Y, painting.bitmap.Data); err != nil {
			painting.canvas = nil
			painting.logger().WithError(err).Warn("canvas texture not created")
			return false
		}
	}
	if painting.mask == nil {
		if painting.mask, err = painting.device.NewTexture(size.X, size.Y, nil); err != nil {
			painting.mask = nil
			painting.logger().WithError(err).Warn("mask texture not created")
			return false
		}
	}
	return true
}

func (painting *Painting) ensureBrushTexture() Texture {
	if painting.brushTexture != nil {
		return painting.brushTexture
	}

	stamp := painting.brush.stampPixmap()
	texture, err := painting.device.NewTexture(stamp.Width, stamp.Height, stamp.Tight())
	if err != nil {
		painting.logger().WithError(err).Warn("brush texture not created")
		return nil
	}
	painting.brushTexture = texture
	return texture
}

func (painting *Painting) releaseBrushTexture() {
	if painting.brushTexture != nil {
		painting.device.DeleteTexture(painting.brushTexture)
		painting.brushTexture = nil
	}
}

// cleanResources releases the framebuffer, canvas, mask, brush texture
// and shaders, in that order.
func (painting *Painting) cleanResources() {
	if painting.framebuffer != nil {
		painting.device.DeleteFramebuffer(painting.framebuffer)
		painting.framebuffer = nil
	}
	if painting.canvas != nil {
		painting.device.DeleteTexture(painting.canvas)
		painting.canvas = nil
	}
	if painting.mask != nil {
		painting.device.DeleteTexture(painting.mask)
		painting.mask = nil
	}
	painting.releaseBrushTexture()
	painting.shaders.release(painting.device)
	painting.shaders = nil
}

func (painting *Painting) discardStroke() {
	painting.activePath = nil
	painting.activeStrokeBounds = image.Rectangle{}
	painting.renderState.Reset()
}
