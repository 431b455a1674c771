/*
 * This file is part of the Acorn DFS Image Tool ("dfsit")
 * Copyright (C) 2025 Andreas Signer <asigner@gmail.com>
 *
 * dfsit is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * dfsit is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with dfsit.  If not, see <https://www.gnu.org/licenses/>.
 */

package basic

// Sample programs and their lossless listings.

var prog1 = []byte{
	0x0d, 0x00, 0x0a, 0x07, 0xeb, 0x20, 0x37, 0x0d, 0x00, 0x14, 0x0f, 0xde,
	0x20, 0x63, 0x6f, 0x64, 0x65, 0x25, 0x20, 0x32, 0x35, 0x36, 0x0d, 0x00,
	0x1e, 0x16, 0xe3, 0x20, 0x6f, 0x70, 0x74, 0x25, 0x20, 0x3d, 0x20, 0x30,
	0x20, 0xb8, 0x20, 0x32, 0x20, 0x88, 0x20, 0x32, 0x0d, 0x00, 0x28, 0x0e,
	0x50, 0x25, 0x20, 0x3d, 0x20, 0x63, 0x6f, 0x64, 0x65, 0x25, 0x0d, 0x00,
	0x32, 0x0d, 0x5b, 0x4f, 0x50, 0x54, 0x20, 0x6f, 0x70, 0x74, 0x25, 0x0d,
	0x00, 0x3c, 0x0c, 0x20, 0x4c, 0x44, 0x41, 0x20, 0x23, 0x36, 0x35, 0x0d,
	0x00, 0x46, 0x0e, 0x20, 0x4a, 0x53, 0x52, 0x20, 0x26, 0x46, 0x46, 0x45,
	0x45, 0x0d, 0x00, 0x50, 0x08, 0x20, 0x52, 0x54, 0x53, 0x0d, 0x00, 0x5a,
	0x05, 0x5d, 0x0d, 0x00, 0x64, 0x05, 0xed, 0x0d, 0x00, 0x6e, 0x0b, 0xd6,
	0x20, 0x63, 0x6f, 0x64, 0x65, 0x25, 0x0d, 0xff,
}

var prog1Source = "" +
	"   10MODE 7\n\r" +
	"   20DIM code% 256\n\r" +
	"   30FOR opt% = 0 TO 2 STEP 2\n\r" +
	"   40P% = code%\n\r" +
	"   50[OPT opt%\n\r" +
	"   60 LDA #65\n\r" +
	"   70 JSR &FFEE\n\r" +
	"   80 RTS\n\r" +
	"   90]\n\r" +
	"  100NEXT\n\r" +
	"  110CALL code%\n\r"

var prog2 = []byte{
	0x0d, 0x00, 0x0a, 0x07, 0xeb, 0x20, 0x37, 0x0d, 0x00, 0x14, 0x11, 0xf1,
	0x20, 0x8a, 0x35, 0x29, 0x20, 0x22, 0x48, 0x45, 0x4c, 0x4c, 0x4f, 0x22,
	0x0d, 0x00, 0x1e, 0x0a, 0xe4, 0x20, 0x8d, 0x74, 0x4c, 0x40, 0x0d, 0x00,
	0x28, 0x0a, 0xe5, 0x20, 0x8d, 0x54, 0x7c, 0x40, 0x0d, 0x00, 0x32, 0x11,
	0xf1, 0x20, 0x22, 0x53, 0x4b, 0x49, 0x50, 0x20, 0x54, 0x48, 0x49, 0x53,
	0x22, 0x0d, 0x00, 0x3c, 0x10, 0xe3, 0x20, 0x61, 0x25, 0x20, 0x3d, 0x20,
	0x30, 0x20, 0xb8, 0x20, 0x34, 0x0d, 0x00, 0x46, 0x1a, 0xe7, 0x20, 0x61,
	0x25, 0x20, 0x3d, 0x20, 0x30, 0x20, 0x8c, 0x20, 0x8d, 0x44, 0x50, 0x40,
	0x20, 0x8b, 0x20, 0x8d, 0x44, 0x64, 0x40, 0x0d, 0x00, 0x50, 0x12, 0xf1,
	0x20, 0x22, 0x61, 0x25, 0x20, 0x69, 0x73, 0x20, 0x7a, 0x65, 0x72, 0x6f,
	0x22, 0x0d, 0x00, 0x5a, 0x0a, 0xe5, 0x20, 0x8d, 0x44, 0x6e, 0x40, 0x0d,
	0x00, 0x64, 0x15, 0xf1, 0x20, 0x22, 0x61, 0x25, 0x20, 0x69, 0x73, 0x20,
	0x6e, 0x6f, 0x6e, 0x7a, 0x65, 0x72, 0x6f, 0x22, 0x0d, 0x00, 0x6e, 0x0d,
	0xf1, 0x20, 0x22, 0x45, 0x4e, 0x44, 0x49, 0x46, 0x22, 0x0d, 0x00, 0x78,
	0x05, 0xed, 0x0d, 0x00, 0x82, 0x05, 0xe0, 0x0d, 0x00, 0x8c, 0x14, 0xf1,
	0x20, 0x22, 0x41, 0x20, 0x53, 0x55, 0x42, 0x52, 0x4f, 0x55, 0x54, 0x49,
	0x4e, 0x45, 0x22, 0x0d, 0x00, 0x96, 0x05, 0xf8, 0x0d, 0xff,
}

var prog2Source = "" +
	"   10MODE 7\n\r" +
	"   20PRINT TAB(5) \"HELLO\"\n\r" +
	"   30GOSUB 140\n\r" +
	"   40GOTO 60\n\r" +
	"   50PRINT \"SKIP THIS\"\n\r" +
	"   60FOR a% = 0 TO 4\n\r" +
	"   70IF a% = 0 THEN 80 ELSE 100\n\r" +
	"   80PRINT \"a% is zero\"\n\r" +
	"   90GOTO 110\n\r" +
	"  100PRINT \"a% is nonzero\"\n\r" +
	"  110PRINT \"ENDIF\"\n\r" +
	"  120NEXT\n\r" +
	"  130END\n\r" +
	"  140PRINT \"A SUBROUTINE\"\n\r" +
	"  150RETURN\n\r"

var prog3 = []byte{
	0x0d, 0x00, 0x0a, 0x0f, 0xf1, 0x8a, 0x35, 0x29, 0x22, 0x48, 0x45, 0x4c,
	0x4c, 0x4f, 0x22, 0x0d, 0x00, 0x14, 0x08, 0xf2, 0x53, 0x55, 0x42, 0x0d,
	0x00, 0x1e, 0x0a, 0xf1, 0xa4, 0x46, 0x55, 0x4e, 0x43, 0x0d, 0x00, 0x28,
	0x05, 0xe0, 0x0d, 0x00, 0x32, 0x09, 0xdd, 0xf2, 0x53, 0x55, 0x42, 0x0d,
	0x00, 0x3c, 0x0a, 0xf1, 0x22, 0x53, 0x55, 0x42, 0x22, 0x0d, 0x00, 0x46,
	0x05, 0xe1, 0x0d, 0x00, 0x50, 0x0a, 0xdd, 0xa4, 0x46, 0x55, 0x4e, 0x43,
	0x0d, 0x00, 0x5a, 0x0b, 0x3d, 0x22, 0x46, 0x55, 0x4e, 0x43, 0x22, 0x0d,
	0xff,
}

var prog3Source = "" +
	"   10PRINTTAB(5)\"HELLO\"\n\r" +
	"   20PROCSUB\n\r" +
	"   30PRINTFNFUNC\n\r" +
	"   40END\n\r" +
	"   50DEFPROCSUB\n\r" +
	"   60PRINT\"SUB\"\n\r" +
	"   70ENDPROC\n\r" +
	"   80DEFFNFUNC\n\r" +
	"   90=\"FUNC\"\n\r"

var prog4 = []byte{
	0x0d, 0x00, 0x00, 0xd2, 0xf4, 0x22, 0x16, 0x07, 0x84, 0x9d, 0x20, 0x20,
	0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20,
	0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20,
	0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20,
	0x84, 0x9d, 0x83, 0x9d, 0x84, 0x8d, 0x20, 0x20, 0x20, 0x20, 0x20, 0x54,
	0x48, 0x45, 0x20, 0x53, 0x54, 0x41, 0x49, 0x52, 0x57, 0x41, 0x59, 0x20,
	0x54, 0x4f, 0x20, 0x48, 0x45, 0x4c, 0x4c, 0x20, 0x20, 0x20, 0x20, 0x20,
	0x20, 0x84, 0x9d, 0x20, 0x84, 0x9d, 0x83, 0x9d, 0x84, 0x8d, 0x20, 0x20,
	0x20, 0x20, 0x20, 0x54, 0x48, 0x45, 0x20, 0x53, 0x54, 0x41, 0x49, 0x52,
	0x57, 0x41, 0x59, 0x20, 0x54, 0x4f, 0x20, 0x48, 0x45, 0x4c, 0x4c, 0x20,
	0x20, 0x20, 0x20, 0x20, 0x20, 0x84, 0x9d, 0x20, 0x84, 0x9d, 0x83, 0x9d,
	0x84, 0x20, 0x20, 0x20, 0x20, 0x20, 0x77, 0x77, 0x77, 0x2e, 0x73, 0x74,
	0x61, 0x69, 0x72, 0x77, 0x61, 0x79, 0x74, 0x6f, 0x68, 0x65, 0x6c, 0x6c,
	0x2e, 0x63, 0x6f, 0x6d, 0x20, 0x20, 0x20, 0x20, 0x20, 0x84, 0x9d, 0x20,
	0x84, 0x9d, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20,
	0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20,
	0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20,
	0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x0d, 0x00, 0x0a, 0x0a, 0x20, 0x2a,
	0x45, 0x58, 0x45, 0x43, 0x0d, 0x00, 0x14, 0x08, 0x20, 0xeb, 0x20, 0x37,
	0x0d, 0x00, 0x1e, 0x0e, 0x20, 0x2a, 0x46, 0x58, 0x20, 0x32, 0x30, 0x30,
	0x2c, 0x32, 0x0d, 0x00, 0x28, 0x0c, 0x20, 0xd0, 0x3d, 0x26, 0x31, 0x39,
	0x30, 0x30, 0x0d, 0x00, 0x32, 0x10, 0x20, 0xd7, 0x20, 0x22, 0x42, 0x2e,
	0x45, 0x4c, 0x49, 0x54, 0x45, 0x22, 0x0d, 0xff,
}

var prog4Source = "" +
	"    0REM\"\x16\x07\x84\x9d                                      \x84\x9d\x83\x9d\x84\x8d     THE STAIRWAY TO HELL      \x84\x9d \x84\x9d\x83\x9d\x84\x8d     THE STAIRWAY TO HELL      \x84\x9d \x84\x9d\x83\x9d\x84     www.stairwaytohell.com     \x84\x9d \x84\x9d                                        \n\r" +
	"   10 *EXEC\n\r" +
	"   20 MODE 7\n\r" +
	"   30 *FX 200,2\n\r" +
	"   40 PAGE=&1900\n\r" +
	"   50 CHAIN \"B.ELITE\"\n\r"
