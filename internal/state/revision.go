package state

import "github.com/leapstack-labs/lcaview/internal/metadata"

// RevisionFromSnapshot describes a loaded snapshot as a revision row.
func RevisionFromSnapshot(snap *metadata.Snapshot) *Revision {
	return &Revision{
		ContentHash:  snap.Hash,
		ProjectName:  snap.Metadata.ProjectName,
		SourcePath:   snap.Source,
		WarningCount: snap.Warnings(),
		LoadedAt:     snap.LoadedAt,
	}
}
