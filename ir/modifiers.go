package ir

import (
	"fmt"
	"strings"
)

// Layout holds the parenthesized layout(...) qualifiers attached to a
// declaration. Unset integer fields are -1.
type Layout struct {
	Location               int
	Offset                 int
	Binding                int
	Index                  int
	Set                    int
	Builtin                int
	InputAttachmentIndex   int
	OriginUpperLeft        bool
	OverrideCoverage       bool
	BlendSupportAllEquations bool
	Format                 string
	PushConstant           bool
	Primitive              string
	MaxVertices            int
	Invocations            int
	When                   string
	Key                    bool
	CType                  string
	Tracked                bool
	Marker                 string
	SRGBUnpremul           bool
}

// DefaultLayout returns a Layout with every field unset.
func DefaultLayout() Layout {
	return Layout{
		Location:             -1,
		Offset:               -1,
		Binding:              -1,
		Index:                -1,
		Set:                  -1,
		Builtin:              -1,
		InputAttachmentIndex: -1,
		MaxVertices:          -1,
		Invocations:          -1,
	}
}

func (l Layout) String() string {
	var parts []string
	add := func(s string) { parts = append(parts, s) }
	if l.Location >= 0 {
		add(fmt.Sprintf("location = %d", l.Location))
	}
	if l.Offset >= 0 {
		add(fmt.Sprintf("offset = %d", l.Offset))
	}
	if l.Binding >= 0 {
		add(fmt.Sprintf("binding = %d", l.Binding))
	}
	if l.Index >= 0 {
		add(fmt.Sprintf("index = %d", l.Index))
	}
	if l.Set >= 0 {
		add(fmt.Sprintf("set = %d", l.Set))
	}
	if l.Builtin >= 0 {
		add(fmt.Sprintf("builtin = %d", l.Builtin))
	}
	if l.InputAttachmentIndex >= 0 {
		add(fmt.Sprintf("input_attachment_index = %d", l.InputAttachmentIndex))
	}
	if l.OriginUpperLeft {
		add("origin_upper_left")
	}
	if l.OverrideCoverage {
		add("override_coverage")
	}
	if l.BlendSupportAllEquations {
		add("blend_support_all_equations")
	}
	if l.Format != "" {
		add(l.Format)
	}
	if l.PushConstant {
		add("push_constant")
	}
	if l.Primitive != "" {
		add(l.Primitive)
	}
	if l.MaxVertices >= 0 {
		add(fmt.Sprintf("max_vertices = %d", l.MaxVertices))
	}
	if l.Invocations >= 0 {
		add(fmt.Sprintf("invocations = %d", l.Invocations))
	}
	if l.When != "" {
		add(fmt.Sprintf("when = %s", l.When))
	}
	if l.Key {
		add("key")
	}
	if l.CType != "" {
		add(fmt.Sprintf("ctype = %s", l.CType))
	}
	if l.Tracked {
		add("tracked")
	}
	if l.Marker != "" {
		add(fmt.Sprintf("marker=%s", l.Marker))
	}
	if l.SRGBUnpremul {
		add("srgb_unpremul")
	}
	if len(parts) == 0 {
		return ""
	}
	return "layout (" + strings.Join(parts, ", ") + ")"
}

// ModifierFlag is a bit in a Modifiers flag set.
type ModifierFlag uint32

// FlagNone is the empty flag set.
const FlagNone ModifierFlag = 0

const (
	FlagConst ModifierFlag = 1 << iota
	FlagIn
	FlagOut
	FlagLowp
	FlagMediump
	FlagHighp
	FlagUniform
	FlagFlat
	FlagNoPerspective
	FlagReadOnly
	FlagWriteOnly
	FlagCoherent
	FlagVolatile
	FlagRestrict
	FlagBuffer
	FlagHasSideEffects
	FlagPLS
	FlagPLSIn
	FlagPLSOut
	FlagVarying
)

// Modifiers is the qualifier set attached to a declaration: a layout
// block plus a flag bitfield.
type Modifiers struct {
	Layout Layout
	Flags  ModifierFlag
}

func (m Modifiers) String() string {
	var sb strings.Builder
	if s := m.Layout.String(); s != "" {
		sb.WriteString(s)
		sb.WriteString(" ")
	}
	flagName := []struct {
		flag ModifierFlag
		name string
	}{
		{FlagUniform, "uniform"},
		{FlagConst, "const"},
		{FlagLowp, "lowp"},
		{FlagMediump, "mediump"},
		{FlagHighp, "highp"},
		{FlagFlat, "flat"},
		{FlagVarying, "varying"},
		{FlagNoPerspective, "noperspective"},
		{FlagReadOnly, "readonly"},
		{FlagWriteOnly, "writeonly"},
		{FlagCoherent, "coherent"},
		{FlagVolatile, "volatile"},
		{FlagRestrict, "restrict"},
		{FlagBuffer, "buffer"},
		{FlagHasSideEffects, "sk_has_side_effects"},
		{FlagPLS, "__pixel_localEXT"},
		{FlagPLSIn, "__pixel_local_inEXT"},
		{FlagPLSOut, "__pixel_local_outEXT"},
	}
	for _, fn := range flagName {
		if m.Flags&fn.flag != 0 {
			sb.WriteString(fn.name)
			sb.WriteString(" ")
		}
	}
	if m.Flags&FlagIn != 0 && m.Flags&FlagOut != 0 {
		sb.WriteString("inout ")
	} else if m.Flags&FlagIn != 0 {
		sb.WriteString("in ")
	} else if m.Flags&FlagOut != 0 {
		sb.WriteString("out ")
	}
	return sb.String()
}
