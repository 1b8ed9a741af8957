package ocd

import "fmt"

// formatTraits captures every knob that varies between the natively
// encoded format versions. One value is selected per export and
// threaded through all encoders.
type formatTraits struct {
	version    uint16
	subversion uint16
	fileType   uint8

	// symbolNumberFactor splits the wire symbol number into
	// major*factor + minor.
	symbolNumberFactor uint32

	// iconBytes is the size of the preview icon blob in the base
	// symbol record.
	iconBytes int

	// custom8BitStrings selects the configurable narrow encoding for
	// strings; false means UTF-8.
	custom8BitStrings bool

	// sizeInSlots makes object index entries count 8-byte slots
	// instead of bytes.
	sizeInSlots bool

	// hasStringTable enables the parameter string index. Without it,
	// map-wide data goes into the setup and info blocks.
	hasStringTable bool

	// notesStringType is the parameter string type for map notes.
	notesStringType int32

	// hasActiveSymbols enables the line symbol active-pattern bit set.
	hasActiveSymbols bool
}

// traitsForVersion returns the traits of a natively encoded version.
// Version 0 (legacy delegate) and unsupported values are rejected by
// the dispatcher before this point.
func traitsForVersion(version int) (formatTraits, error) {
	switch version {
	case 8:
		return formatTraits{
			version:            8,
			subversion:         0,
			fileType:           typeMapV8,
			symbolNumberFactor: 100,
			iconBytes:          264,
			custom8BitStrings:  true,
			sizeInSlots:        true,
		}, nil
	case 9, 10:
		return formatTraits{
			version:            uint16(version),
			fileType:           typeMap,
			symbolNumberFactor: 1000,
			iconBytes:          484,
			custom8BitStrings:  true,
			sizeInSlots:        true,
			hasStringTable:     true,
			notesStringType:    11,
		}, nil
	case 11:
		return formatTraits{
			version:            11,
			fileType:           typeMap,
			symbolNumberFactor: 1000,
			iconBytes:          484,
			hasStringTable:     true,
			notesStringType:    1061,
			hasActiveSymbols:   true,
		}, nil
	case 12:
		return formatTraits{
			version:            12,
			fileType:           typeMap,
			symbolNumberFactor: 1000,
			iconBytes:          484,
			hasStringTable:     true,
			notesStringType:    1061,
			hasActiveSymbols:   true,
		}, nil
	default:
		return formatTraits{}, fmt.Errorf("no native encoder for format version %d", version)
	}
}
