package workflow

import (
	"strings"

	"github.com/bekirdag/vdcdash/internal/catalog"
)

// EdgeCase stretches the baseline/target identifiers to stress layout.
type EdgeCase int

const (
	EdgeNormal EdgeCase = iota
	EdgeLongBaseline
	EdgeLongTarget
	EdgeLongBoth
)

var edgeNames = [...]string{"NORMAL", "LONG_BASELINE", "LONG_TARGET", "LONG_BOTH"}

func (e EdgeCase) String() string {
	if e < EdgeNormal || e > EdgeLongBoth {
		return "UNKNOWN"
	}
	return edgeNames[e]
}

func (e EdgeCase) Next() EdgeCase {
	return (e + 1) % EdgeCase(len(edgeNames))
}

const (
	longIdentifierLen = 90

	baselineShort  = "UP_DMR_AO_REL"
	baselinePrefix = "UP_DMR_AO_REL_STABLE_BUILD_ENVIRONMENT_ARCHIVE_LONG_ID_IDENTIFIER_"
	targetShort    = "Unified_pathc_DMR_A0_RC"
	targetPrefix   = "Unified_pathc_DMR_A0_STAGING_ENVIRONMENT_STABLE_RELEASE_v25_1_0_RC_"
)

type Identifiers struct {
	BaselineLabel string
	BaselineName  string
	TargetLabel   string
	TargetName    string
}

// IdentifiersFor returns the baseline and target cards of a build step.
func IdentifiersFor(kind catalog.StepKind, edge EdgeCase) Identifiers {
	baseline := baselineShort
	if edge == EdgeLongBaseline || edge == EdgeLongBoth {
		baseline = padIdentifier(baselinePrefix)
	}
	target := targetShort
	if edge == EdgeLongTarget || edge == EdgeLongBoth {
		target = padIdentifier(targetPrefix)
	}
	if kind == catalog.KindUnifiedPatch {
		return Identifiers{BaselineLabel: "BASELINE", BaselineName: baseline, TargetLabel: "TARGET", TargetName: target}
	}
	return Identifiers{
		BaselineLabel: "IFWI BASELINE",
		BaselineName:  "IFWI " + baseline,
		TargetLabel:   "IFWI TARGET",
		TargetName:    "IFWI " + target,
	}
}

func padIdentifier(prefix string) string {
	if len(prefix) >= longIdentifierLen {
		return prefix
	}
	return prefix + strings.Repeat("X", longIdentifierLen-len(prefix))
}
