package app

import (
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/modules/cond"
	"github.com/vk/mdrun/modules/form"
	"github.com/vk/mdrun/modules/mapblock"
	"github.com/vk/mdrun/modules/nav"
	"github.com/vk/mdrun/modules/panel"
	"github.com/vk/mdrun/modules/set"
	"github.com/vk/mdrun/modules/state"
)

// coreModules is the definitive list of all block modules that are compiled
// into the mdrun binary.
var coreModules = []registry.Module{
	&state.Module{},
	&set.Module{},
	&form.Module{},
	&cond.Module{},
	&nav.Module{},
	&panel.Module{},
	&mapblock.Module{},
}
