package customscan

import "github.com/zombodb/zdbscan/pkg/nodes"

// The provider's method tables. The host holds pointers to them for the
// life of the process and they are never modified.
var (
	PathMethods = nodes.CustomPathMethods{
		CustomName:                      "ZomboDB Custom Path",
		PlanCustomPath:                  planCustomPath,
		ReparameterizeCustomPathByChild: nil,
	}

	ScanMethods = nodes.CustomScanMethods{
		CustomName:            "ZomboDB Custom Scan",
		CreateCustomScanState: createCustomScanState,
	}

	ExecMethods = nodes.CustomExecMethods{
		CustomName:                 "ZomboDB Exec",
		BeginCustomScan:            beginCustomScan,
		ExecCustomScan:             execCustomScan,
		EndCustomScan:              endCustomScan,
		ReScanCustomScan:           reScanCustomScan,
		MarkPosCustomScan:          markPosCustomScan,
		RestrPosCustomScan:         restrPosCustomScan,
		EstimateDSMCustomScan:      estimateDSMCustomScan,
		InitializeDSMCustomScan:    initializeDSMCustomScan,
		ReInitializeDSMCustomScan:  reInitializeDSMCustomScan,
		InitializeWorkerCustomScan: initializeWorkerCustomScan,
		ShutdownCustomScan:         shutdownCustomScan,
		ExplainCustomScan:          explainCustomScan,
	}
)
