package ocd

// File container layout. The 48-byte header is followed by free-form
// sections; all cross references are absolute file positions, so the
// section order is not significant. Records are padded to 8 bytes.
// Index blocks hold 256 entries each and chain through a leading
// next-block position; the header points at the first block of each
// chain, or 0 when the chain is empty.

const (
	headerSize = 48

	offFirstSymbolBlock = 8
	offFirstObjectBlock = 12
	offSetupPos         = 16
	offSetupSize        = 20
	offInfoPos          = 24
	offInfoSize         = 28
	offFirstStringBlock = 32
)

const indexBlockEntries = 256

// objectIndexEntry is the spatial index entry accompanying one object
// record.
type objectIndexEntry struct {
	lowerLeft  ocdPoint
	upperRight ocdPoint
	symbol     int32
	objType    uint8
	status     uint8
}

// indexedObject pairs an object record with its index entry.
type indexedObject struct {
	entry objectIndexEntry
	data  []byte
}

// fileBuilder assembles the complete file image in memory. Sections
// are collected first and serialized in one pass, so a failing export
// writes nothing.
type fileBuilder struct {
	traits formatTraits

	symbols [][]byte
	objects []indexedObject
	strings []paramString

	// v8 sections
	colorTable []byte
	setup      []byte
	info       []byte

	// encodes a parameter string for the string table
	encodeString func(s string) []byte
}

func (b *fileBuilder) addSymbol(data []byte) {
	b.symbols = append(b.symbols, data)
}

func (b *fileBuilder) addObject(entry objectIndexEntry, data []byte) {
	b.objects = append(b.objects, indexedObject{entry: entry, data: data})
}

func (b *fileBuilder) addString(recType int32, value string) {
	b.strings = append(b.strings, paramString{recType: recType, value: value})
}

// serialize builds the file image.
func (b *fileBuilder) serialize() []byte {
	w := &recordWriter{}

	// Header; offsets are patched as the sections land.
	w.u16(vendorMark)
	w.u8(b.traits.fileType)
	w.u8(0)
	w.u16(b.traits.version)
	w.u16(b.traits.subversion)
	w.zeros(headerSize - 8)

	if len(b.colorTable) > 0 {
		w.raw(b.colorTable)
	}
	if len(b.setup) > 0 {
		w.patchU32(offSetupPos, uint32(w.pos()))
		w.patchU32(offSetupSize, uint32(len(b.setup)))
		w.raw(b.setup)
	}
	if len(b.info) > 0 {
		w.patchU32(offInfoPos, uint32(w.pos()))
		w.patchU32(offInfoSize, uint32(len(b.info)))
		w.raw(b.info)
	}

	b.writeSymbolSection(w)
	b.writeObjectSection(w)
	if b.traits.hasStringTable {
		b.writeStringSection(w)
	}

	return w.bytes()
}

func (b *fileBuilder) writeSymbolSection(w *recordWriter) {
	positions := make([]uint32, len(b.symbols))
	for i, data := range b.symbols {
		w.pad()
		positions[i] = uint32(w.pos())
		w.raw(data)
	}
	writeIndexChain(w, offFirstSymbolBlock, len(b.symbols), func(w *recordWriter, i int) {
		w.u32(positions[i])
	}, 4)
}

func (b *fileBuilder) writeObjectSection(w *recordWriter) {
	type placed struct {
		pos    uint32
		padded int
	}
	positions := make([]placed, len(b.objects))
	for i, obj := range b.objects {
		w.pad()
		positions[i] = placed{pos: uint32(w.pos()), padded: paddedSize(len(obj.data))}
		w.raw(obj.data)
	}

	slots := func(padded int) int {
		if b.traits.sizeInSlots {
			return (padded - objectHeaderSize) / ocdPointSize
		}
		return padded
	}

	if b.traits.version == 8 {
		writeIndexChain(w, offFirstObjectBlock, len(b.objects), func(w *recordWriter, i int) {
			e := b.objects[i].entry
			w.point(e.lowerLeft)
			w.point(e.upperRight)
			w.u32(positions[i].pos)
			w.u16(uint16(slots(positions[i].padded)))
			w.u16(uint16(e.symbol))
		}, 24)
		return
	}

	writeIndexChain(w, offFirstObjectBlock, len(b.objects), func(w *recordWriter, i int) {
		e := b.objects[i].entry
		size := slots(positions[i].padded)
		w.point(e.lowerLeft)
		w.point(e.upperRight)
		w.u32(positions[i].pos)
		w.u32(uint32(size))
		w.i32(e.symbol)
		w.u8(e.objType)
		w.u8(0) // encrypted
		w.u8(e.status)
		w.u8(0) // view type
		w.u16(0) // color override
		w.u16(0)
		w.u16(0) // import layer
		w.u16(0)
	}, 40)
}

func (b *fileBuilder) writeStringSection(w *recordWriter) {
	type placed struct {
		pos       uint32
		allocated uint32
	}
	positions := make([]placed, len(b.strings))
	for i, s := range b.strings {
		data := b.encodeString(s.value)
		w.pad()
		pos := w.pos()
		w.raw(data)
		w.u8(0)
		w.pad()
		positions[i] = placed{pos: uint32(pos), allocated: uint32(w.pos() - pos)}
	}
	writeIndexChain(w, offFirstStringBlock, len(b.strings), func(w *recordWriter, i int) {
		w.u32(positions[i].pos)
		w.u32(positions[i].allocated)
		w.i32(b.strings[i].recType)
		w.i32(0) // object index, unused
	}, 16)
}

// writeIndexChain writes the chained 256-entry index blocks for count
// entries, linking the first block into the header at headerOff.
// Unused entries of the last block stay zero. No block is written for
// an empty chain.
func writeIndexChain(w *recordWriter, headerOff, count int, writeEntry func(w *recordWriter, i int), entrySize int) {
	link := headerOff
	for base := 0; base < count; base += indexBlockEntries {
		w.pad()
		blockPos := w.pos()
		w.patchU32(link, uint32(blockPos))
		link = blockPos
		w.u32(0) // next block, patched when one follows
		for i := base; i < base+indexBlockEntries; i++ {
			if i < count {
				writeEntry(w, i)
			} else {
				w.zeros(entrySize)
			}
		}
	}
}
