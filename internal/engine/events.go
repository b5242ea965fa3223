package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/mdrun/internal/ctxlog"
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/render"
)

// SubmitForm applies a full form submission and renders. A submission that
// fails validation is rejected as a whole: nothing is written and the
// returned error matches registry.ErrInvalidInput. Failures after
// validation, such as an on-submit command aborting, are shown as a warning
// at the form and do not fail the call.
func (inst *Instance) SubmitForm(ctx context.Context, formID string, fields map[string]any) (*render.Tree, error) {
	return inst.formEvent(ctx, formID, func(p *pass, fb registry.FormBlock) error {
		return fb.Submit(ctx, p, fields)
	})
}

// ChangeField writes a single form field and renders.
func (inst *Instance) ChangeField(ctx context.Context, formID, field string, v any) (*render.Tree, error) {
	return inst.formEvent(ctx, formID, func(p *pass, fb registry.FormBlock) error {
		return fb.Change(ctx, p, field, v)
	})
}

func (inst *Instance) formEvent(ctx context.Context, formID string, apply func(*pass, registry.FormBlock) error) (*render.Tree, error) {
	logger := ctxlog.FromContext(ctx)
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if inst.phase == PhaseClosed {
		return nil, ErrClosed
	}

	idx, fb, err := inst.findForm(formID)
	if err != nil {
		return nil, err
	}

	p := newPass(inst).at(inst.items[idx])
	if err := apply(p, fb); err != nil {
		if errors.Is(err, registry.ErrInvalidInput) {
			logger.Debug("Form input rejected.", "form", formID, "error", err)
			return nil, err
		}
		logger.Warn("Form event failed.", "form", formID, "error", err)
		inst.warnAt(idx, registry.KindForm, err)
	}
	return inst.renderLocked(ctx), nil
}

// findForm returns the first visible form block with the given id.
func (inst *Instance) findForm(formID string) (int, registry.FormBlock, error) {
	p := newPass(inst)
	hidden := false
	for idx, it := range inst.items {
		fb, ok := it.block.(registry.FormBlock)
		if !ok || fb.FormID() != formID {
			continue
		}
		if !p.visible(it) {
			hidden = true
			continue
		}
		return idx, fb, nil
	}
	if hidden {
		return -1, nil, fmt.Errorf("%w: %q is hidden", ErrUnknownForm, formID)
	}
	return -1, nil, fmt.Errorf("%w: %q", ErrUnknownForm, formID)
}

// ActivateNav moves the navigation focus to target, a heading anchor with or
// without a leading '#'. The first visible nav choice pointing at target
// runs its commands first. An unknown target leaves the focus unchanged and
// adds a warning to the rendered tree.
func (inst *Instance) ActivateNav(ctx context.Context, target string) (*render.Tree, error) {
	logger := ctxlog.FromContext(ctx)
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if inst.phase == PhaseClosed {
		return nil, ErrClosed
	}

	target = strings.TrimPrefix(strings.TrimSpace(target), "#")
	if _, ok := inst.doc.Anchor(target); !ok {
		logger.Warn("Navigation to unknown anchor.", "target", target)
		inst.pending[-1] = append(inst.pending[-1], &render.Warning{
			Kind:   string(registry.KindNav),
			Reason: fmt.Sprintf("no section with anchor %q", target),
		})
		return inst.renderLocked(ctx), nil
	}

	p := newPass(inst)
	for idx, it := range inst.items {
		nb, ok := it.block.(registry.NavBlock)
		if !ok || !p.visible(it) {
			continue
		}
		found, err := nb.Activate(ctx, p.at(it), target)
		if err != nil {
			logger.Warn("Navigation commands failed.", "target", target, "error", err)
			inst.warnAt(idx, registry.KindNav, err)
		}
		if found {
			break
		}
	}

	if inst.anchor != target {
		inst.anchor = target
		inst.anchorDirty = true
	}
	logger.Debug("Navigated.", "anchor", target)
	return inst.renderLocked(ctx), nil
}

// warnAt queues a warning for the next render at item idx.
func (inst *Instance) warnAt(idx int, kind registry.Kind, err error) {
	it := inst.items[idx]
	w := &render.Warning{Kind: string(kind), Reason: err.Error()}
	if it.node.Block != nil {
		w.Source = it.node.Block.Range
	}
	inst.pending[idx] = append(inst.pending[idx], w)
}
