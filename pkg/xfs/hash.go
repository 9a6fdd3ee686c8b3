package xfs

// hashname computes the rolling XOR hash XFS uses to order directory and
// attribute leaf entries (spec.md §4.8 "name hash"). Ported unchanged from
// the teacher's directory builder, which computed the same hash to lay
// entries out in the order a reader must now expect them in.
func hashname(name string) uint32 {
	var hash uint32

	rol32 := func(word uint32, shift int) uint32 {
		return (word << (shift & 31)) | (word >> ((-shift) & 31))
	}

	for {
		switch len(name) {
		case 0:
			return hash
		case 1:
			hash = (uint32(name[0]) << 0) ^ rol32(hash, 7*1)
			name = name[1:]
		case 2:
			hash = (uint32(name[0]) << 7) ^ (uint32(name[1]) << 0) ^ rol32(hash, 7*2)
			name = name[2:]
		case 3:
			hash = (uint32(name[0]) << 14) ^ (uint32(name[1]) << 7) ^ (uint32(name[2]) << 0) ^ rol32(hash, 7*3)
			name = name[3:]
		default:
			hash = (uint32(name[0]) << 21) ^ (uint32(name[1]) << 14) ^ (uint32(name[2]) << 7) ^ (uint32(name[3]) << 0) ^ rol32(hash, 7*4)
			name = name[4:]
		}
	}
}
