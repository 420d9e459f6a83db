package customscan

import (
	"encoding/binary"

	"github.com/ccoveille/go-safecast/v2"

	log "github.com/zombodb/zdbscan/internal/logging"
	"github.com/zombodb/zdbscan/pkg/nodes"
)

// The shared region starts with a fixed header:
//
//	[0:4]   magic "ZDBS"
//	[4:8]   layout version
//	[8:16]  plan node id
//	[16:24] number of rows handed out so far
const (
	sharedMagic      = "ZDBS"
	sharedVersion    = uint32(1)
	sharedHeaderSize = 24

	offsetVersion     = 4
	offsetPlanNodeID  = 8
	offsetResultCount = 16
)

type sharedHeader struct {
	version     uint32
	planNodeID  uint64
	resultCount uint64
}

func writeSharedHeader(region []byte, h sharedHeader) bool {
	if len(region) < sharedHeaderSize {
		return false
	}
	copy(region, sharedMagic)
	binary.LittleEndian.PutUint32(region[offsetVersion:], h.version)
	binary.LittleEndian.PutUint64(region[offsetPlanNodeID:], h.planNodeID)
	binary.LittleEndian.PutUint64(region[offsetResultCount:], h.resultCount)
	return true
}

func readSharedHeader(region []byte) (sharedHeader, bool) {
	if len(region) < sharedHeaderSize || string(region[:offsetVersion]) != sharedMagic {
		return sharedHeader{}, false
	}
	return sharedHeader{
		version:     binary.LittleEndian.Uint32(region[offsetVersion:]),
		planNodeID:  binary.LittleEndian.Uint64(region[offsetPlanNodeID:]),
		resultCount: binary.LittleEndian.Uint64(region[offsetResultCount:]),
	}, true
}

func (s *scanState) planNodeID() uint64 {
	if s.Plan == nil {
		return 0
	}
	id, err := safecast.Convert[uint64](s.Plan.BasePlan().PlanNodeID)
	if err != nil {
		return 0
	}
	return id
}

// estimateDSMCustomScan never under-estimates what initializeDSMCustomScan
// writes.
func estimateDSMCustomScan(node nodes.CustomScanNode, _ *nodes.ParallelContext) uint64 {
	s, err := asScanState(node)
	if err != nil {
		return 0
	}
	if !s.Flags.Has(nodes.CustomPathParallelCapable) {
		return 0
	}
	return sharedHeaderSize
}

// initializeDSMCustomScan writes the header into coordinate. A region too
// small to hold it, including an empty one, is left untouched.
func initializeDSMCustomScan(node nodes.CustomScanNode, _ *nodes.ParallelContext, coordinate []byte) {
	s, err := asScanState(node)
	if err != nil {
		return
	}
	if !writeSharedHeader(coordinate, sharedHeader{version: sharedVersion, planNodeID: s.planNodeID()}) {
		log.Trace().Str("scan", s.id).Int("size", len(coordinate)).Msg("shared region too small, not initializing")
		return
	}
	s.shared = coordinate
}

// reInitializeDSMCustomScan resets the shared counters before a parallel
// rescan. The rest of the header is kept.
func reInitializeDSMCustomScan(node nodes.CustomScanNode, _ *nodes.ParallelContext, coordinate []byte) {
	if _, err := asScanState(node); err != nil {
		return
	}
	h, ok := readSharedHeader(coordinate)
	if !ok {
		return
	}
	h.resultCount = 0
	writeSharedHeader(coordinate, h)
}

// countSharedResult records one more row handed out by the leader. Workers
// never write to the region.
func (s *scanState) countSharedResult() {
	if s.worker || s.shared == nil {
		return
	}
	h, ok := readSharedHeader(s.shared)
	if !ok {
		return
	}
	h.resultCount++
	writeSharedHeader(s.shared, h)
}

// initializeWorkerCustomScan attaches a worker to the region set up by the
// leader. The worker only reads it.
func initializeWorkerCustomScan(node nodes.CustomScanNode, _ *nodes.ShmToc, coordinate []byte) {
	s, err := asScanState(node)
	if err != nil {
		return
	}
	s.worker = true
	if _, ok := readSharedHeader(coordinate); !ok {
		s.shared = nil
		return
	}
	s.shared = coordinate
}
