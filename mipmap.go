package texthumb

// calculateMipMapCount returns the length of a full mip chain for width x height.
func calculateMipMapCount(width, height int) int {
	count := 1
	w, h := width, height
	for w > 1 || h > 1 {
		count++
		if w > 1 {
			w /= 2
		}
		if h > 1 {
			h /= 2
		}
	}

	return count
}

// mipDimension calculates the dimension of a mipmap level.
func mipDimension(base, level int) int {
	result := base >> level
	if result < 1 {
		return 1
	}

	return result
}
