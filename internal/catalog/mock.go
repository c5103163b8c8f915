package catalog

import (
	"context"
	"fmt"
	"math/rand"
)

var (
	mockHWConfigs = []string{"SBF1S2", "SBF5S2", "SBF3S2", "SBF7S1", "SBF8S1"}
	mockSWConfigs = []string{"A", "B", "C", "D", "E", "F"}
	mockGoals     = []string{"Sanity_Memory_Memicals", "coldWarmResetSolar", "Sanity_Mesh_Pysec", "Sanity_PCIE_Rocket"}
)

// MockSource generates the demo dataset. Seed drives the synthetic test
// durations; everything else is fixed.
type MockSource struct {
	Seed      int64
	TestLines int
}

func (s MockSource) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return New(MockData(s.Seed, s.TestLines))
}

// MockData builds the demo dataset. A non-positive count falls back to
// the 450 lines the dashboard was designed around.
func MockData(seed int64, testLines int) Data {
	if testLines <= 0 {
		testLines = 450
	}
	rng := rand.New(rand.NewSource(seed))
	return Data{
		Projects: []Project{
			{ID: "p1", Name: "Meteor Lake-S", CodeName: "MTL-S", LastAccessed: "2h ago"},
			{ID: "p2", Name: "Lunar Lake-M", CodeName: "LNL-M", LastAccessed: "4h ago"},
			{ID: "p3", Name: "Arrow Lake-H", CodeName: "ARL-H", LastAccessed: "1d ago"},
			{ID: "p4", Name: "Panther Canyon", CodeName: "PAC-S", LastAccessed: "2d ago"},
		},
		Ingredients: mockIngredients(),
		Releases: []Release{
			{ID: "1166", Version: "2025.17.7.3", ChangedDeps: "0/0", ReleasedBy: "Nagorski, Wojciech", ReleasedDate: "4/27/25 10:10 AM", ReleasedWW: "2025WW17.0"},
			{ID: "1151", Version: "2025.17.3.1", ChangedDeps: "0/0", ReleasedBy: "Nagorski, Wojciech", ReleasedDate: "4/23/25 11:47 AM", ReleasedWW: "2025WW17.3"},
		},
		Knobs: mockKnobs(),
		Straps: []Strap{
			{Key: "STRAP_PCIE_GEN_SEL", Value: "0x3"},
			{Key: "STRAP_DEBUG_INTERFACE_EN", Value: "0x1"},
		},
		BuildDeps: mockBuildDeps(),
		Steps: []WorkflowStep{
			{ID: "step0", Name: "Unified Patch Build", Status: StepSuccess, Kind: KindUnifiedPatch},
			{ID: "step1", Name: "IFWI Build Phase 1", Status: StepSuccess, Kind: KindFirmwareBuild},
			{ID: "step2", Name: "IFWI Build Phase 2", Status: StepSuccess, Kind: KindFirmwareBuild},
			{ID: "step3", Name: "IFWI Build Phase 3", Status: StepSuccess, Kind: KindFirmwareBuild},
			{ID: "step4", Name: "IFWI Build Phase 4", Status: StepInProgress, Kind: KindFirmwareBuild},
			{ID: "step5", Name: "IFWI Build Phase 5", Status: StepPending, Kind: KindFirmwareBuild},
			{ID: "step6", Name: "Validation Test Run", Status: StepPending, Kind: KindTest},
		},
		TestLines: mockTestLines(rng, testLines),
	}
}

func mockIngredients() []Ingredient {
	return []Ingredient{
		{ID: "1040", Type: "ACE-ROM-EXT", Name: "PTL_ACE_ROM_EXT_Release_Prod_ACE_ROM_EXT_0", ReleasesCount: 3, SiliconFamily: "PTL"},
		{ID: "1019", Type: "AUNIT", Name: "PTL_AUNIT_Release_Prod_AUNIT_0", ReleasesCount: 8, SiliconFamily: "PTL"},
		{ID: "1022", Type: "BIOS", Name: "PTL_BIOS_Release_Prod_BIOS_0", ReleasesCount: 12, SiliconFamily: "PTL"},
		{ID: "1020", Type: "BIOS", Name: "PTL_BIOS_Release_Prod_BIOS_1", ReleasesCount: 2, SiliconFamily: "PTL"},
		{ID: "1041", Type: "CNVI", Name: "PTL_CNVi_Release_Prod_CNVI_0", ReleasesCount: 1, SiliconFamily: "PTL"},
		{ID: "1021", Type: "CSME", Name: "PTL_CSME_Release_Prod_CSME_0", ReleasesCount: 12, SiliconFamily: "PTL", Description: "No description provided"},
		{ID: "1005", Type: "CSME", Name: "PTL_CSME_Release_Prod_CSME_1", ReleasesCount: 10, SiliconFamily: "PTL"},
		{ID: "1006", Type: "EC", Name: "PTL_EC_Release_Prod_EC_0", ReleasesCount: 8, SiliconFamily: "PTL"},
		{ID: "1016", Type: "IFWI", Name: "PTL_PR01_A0A0-XXXODCA_RPRF_SED0_11F7069A", ReleasesCount: 7, SiliconFamily: "PTL", Segment: "PTL-P"},
	}
}

func mockKnobs() []Knob {
	knobs := []Knob{
		{ID: "k1", Name: "DfxDcsRxDfeGainCoefficient", Path: "Socket Configuration/Memory Configuration/Memory Dfx Configuration/DCS RX DFE Gain Coefficient", DisplayValue: "1: +6 dB", RawValue: "0x1", Status: KnobActive, IsOverridden: true},
		{ID: "k2", Name: "PchPcieRootPortMaxPayloadSizeSupportedExceeding...", Path: "Socket Configuration/PCH Configuration/PCI Express/Root Port Configuration/Advanced Error Reporting/Ca...", DisplayValue: "256 Bytes", RawValue: "0x1", Status: KnobActive, IsOverridden: true},
		{ID: "k3", Name: "PcieRootPort0L1Substates", Path: "Socket Configuration/PCH Configuration/PCI Express/Root Port 0", DisplayValue: "L1.1", RawValue: "0x1", Status: KnobActive, IsOverridden: true},
		{ID: "k4", Name: "PcieRootPort0Speed", Path: "Socket Configuration/PCH Configuration/PCI Express/Root Port 0", DisplayValue: "Auto", RawValue: "0x0", Status: KnobActive, IsOverridden: true},
		{ID: "k5", Name: "PcieRootPort1Aspm", Path: "Socket Configuration/PCH Configuration/PCI Express/Root Port 1", DisplayValue: "Enabled", RawValue: "0x1", Status: KnobActive, IsOverridden: true},
		{ID: "k6", Name: "PcieRootPort1L1Substates", Path: "Socket Configuration/PCH Configuration/PCI Express/Root Port 1", DisplayValue: "L1.1", RawValue: "0x1", Status: KnobActive, IsOverridden: true},
	}
	for i := 0; i < 94; i++ {
		knobs = append(knobs, Knob{
			ID:           fmt.Sprintf("k-gen-%d", i),
			Name:         fmt.Sprintf("Standard_Knob_Config_%d", i+7),
			Path:         fmt.Sprintf("Platform/General/Configuration/System/Params/Set_%d", i),
			DisplayValue: "Default",
			RawValue:     "0x0",
			Status:       KnobActive,
		})
	}
	return knobs
}

func mockBuildDeps() []Release {
	deps := make([]Release, 0, 50)
	for i := 0; i < 50; i++ {
		releasedBy := "Admin"
		if i%2 == 0 {
			releasedBy = "System"
		}
		deps = append(deps, Release{
			ID:           fmt.Sprintf("R%d", 100-i),
			Version:      fmt.Sprintf("v%d.%d.0", 24-i/5, i%10),
			ChangedDeps:  fmt.Sprintf("%d/%d", i%3, i%3+2),
			ReleasedBy:   releasedBy,
			ReleasedDate: fmt.Sprintf("%dd ago", i+1),
			ReleasedWW:   fmt.Sprintf("WW25.%d", 10-i%10),
			IsModified:   i%3 == 0,
		})
	}
	return deps
}

func mockTestLines(rng *rand.Rand, n int) []TestLine {
	lines := make([]TestLine, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, TestLine{
			ID:       fmt.Sprintf("TL_%d", 1000+i),
			Name:     fmt.Sprintf("perf_val_case_%03d", i),
			Node:     fmt.Sprintf("SUT_NODE_0%d", i%5+1),
			Duration: fmt.Sprintf("%.1fs", rng.Float64()*5+1),
			Status:   mockStatus(i, n),
			Included: true,
			GoalName: mockGoals[i%len(mockGoals)],
			HWConfig: mockHWConfigs[i%len(mockHWConfigs)],
			SWConfig: mockSWConfigs[i%len(mockSWConfigs)],
		})
	}
	return lines
}

// mockStatus keeps the 300/50/50/rest split of the 450-line dataset and
// scales it proportionally for other sizes.
func mockStatus(i, n int) TestStatus {
	switch {
	case i < n*300/450:
		return TestPassed
	case i < n*350/450:
		return TestFailed
	case i < n*400/450:
		return TestRunning
	default:
		return TestPending
	}
}
