package xfs

const (
	agfMagic = 0x58414746 // "XAGF"
	agiMagic = 0x58414749 // "XAGI"
)

// AGWarning describes a non-fatal inconsistency found while cross-checking
// an allocation group's free-space (AGF) and inode (AGI) headers against
// the superblock's geometry. Mount does not run this check; the warnings
// exist so a caller can surface "this volume looks off" without treating it
// as CORRUPT the way a bad directory or inode block would be.
type AGWarning struct {
	AG      uint32
	Message string
}

// CheckAllocationGroups reads the AGF and AGI header of every allocation
// group and compares their recorded lengths against the superblock's
// ag_blocks, matching loosely what xfs_repair's quick geometry pass does.
// Every AG is checked independently; one bad AG produces a warning, not an
// aborted scan (SPEC_FULL.md geometry supplement).
func CheckAllocationGroups(v *Volume) ([]AGWarning, error) {
	var warnings []AGWarning

	for ag := uint32(0); ag < v.SB.AGCount; ag++ {
		agByte := int64(ag) * int64(v.SB.AGBlockCount) << v.SB.BlockLog

		agf, err := v.ReadAt(agByte+int64(v.SB.BlockSize), int(v.SB.SectorSize))
		if err != nil {
			warnings = append(warnings, AGWarning{AG: ag, Message: "could not read AGF: " + err.Error()})
		} else if magic := be32(agf[0:]); magic != agfMagic {
			warnings = append(warnings, AGWarning{AG: ag, Message: "AGF bad magic"})
		} else if length := be32(agf[12:]); length != v.SB.AGBlockCount && ag != v.SB.AGCount-1 {
			warnings = append(warnings, AGWarning{AG: ag, Message: "AGF length disagrees with sb_agblocks"})
		}

		agi, err := v.ReadAt(agByte+2*int64(v.SB.BlockSize), int(v.SB.SectorSize))
		if err != nil {
			warnings = append(warnings, AGWarning{AG: ag, Message: "could not read AGI: " + err.Error()})
		} else if magic := be32(agi[0:]); magic != agiMagic {
			warnings = append(warnings, AGWarning{AG: ag, Message: "AGI bad magic"})
		} else if length := be32(agi[12:]); length != v.SB.AGBlockCount && ag != v.SB.AGCount-1 {
			warnings = append(warnings, AGWarning{AG: ag, Message: "AGI length disagrees with sb_agblocks"})
		}
	}

	return warnings, nil
}
