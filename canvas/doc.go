/*
Package canvas contains implementation of the canvas program.

Every neighborhood has a list of frames. A frame is a canvas block record of
BlockSize bytes: RGB color of every space of the neighborhood followed by the
neighborhood coordinates and the initialized flag. Frames are numbered from
zero, frame pointers bind numbers to blocks and never change.

Neighborhood and space metadata are read from the registry program: their
addresses are reconstructed with the registry identity set in Config.

# Instructions

	0 InitFrame(x, y i64)
	  - base, canvas block, frame base, frame pointer, neighborhood
	    metadata, payer (signer)
	1 ChangeColor(x, y i64, frame u64, r, g, b u8)
	  - base, canvas block, frame base, frame pointer, neighborhood
	    metadata, space metadata, owner (signer), owner holding
	2 ChangeColorBrief(x, y i16, frame, r, g, b u8)
	  - same as ChangeColor
*/
package canvas
