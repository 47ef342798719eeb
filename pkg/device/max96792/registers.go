/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package max96792

import (
	"jinr.ru/greenlab/go-gmsl/pkg/device"
	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
)

// Known device ids of the DEV_ID register.
var PartNames = map[uint8]string{
	0xB6: "MAX96792A",
}

type RegAlias int

const (
	RegReg1 RegAlias = iota
	RegReg3
	RegReg4
	RegDevID
	RegDevRev
	RegCtrl0
	RegCtrl3A
	RegCtrl3B
	RegIntr3
	RegIntr5
	RegDecErrCntA
	RegDecErrCntB
	RegIdleErrCntA
	RegIdleErrCntB
	RegLfStatus01
	RegLfStatus23
	RegArq2MainA
	RegArq2GpioA
	RegArq2Pt1A
	RegArq2Pt2A
	RegArq2MainB
	RegArq2GpioB
	RegArq2Pt1B
	RegArq2Pt2B
	RegVideoPipeEn
	RegVideoPipeSel
	RegBacktop11
	RegBacktop12
	RegBpp8Dbl
	RegBpp8DblMode
	RegBpp10Dbl
	RegBpp10DblMode
	RegBpp12Dbl
	RegBpp12DblMode
	RegMipiPhy0
	RegMipiPhy2
	RegMipiPhy3
	RegMipiPhy4
	RegMipiPhy5
	RegMipiPhy6
	RegDpllResetA
	RegDpllResetB
	RegAliasLimit
)

var RegMap = map[RegAlias]uint16{
	RegReg1:         0x0001,
	RegReg3:         0x0003,
	RegReg4:         0x0004,
	RegDevID:        0x000D,
	RegDevRev:       0x000E,
	RegCtrl0:        0x0010,
	RegCtrl3A:       0x0013,
	RegCtrl3B:       0x5009,
	RegIntr3:        0x001B,
	RegIntr5:        0x001D,
	RegDecErrCntA:   0x0022,
	RegDecErrCntB:   0x0023,
	RegIdleErrCntA:  0x0024,
	RegIdleErrCntB:  0x0025,
	RegLfStatus01:   0x0026,
	RegLfStatus23:   0x0027,
	RegArq2MainA:    0x0087,
	RegArq2GpioA:    0x0097,
	RegArq2Pt1A:     0x00A7,
	RegArq2Pt2A:     0x00B7,
	RegArq2MainB:    0x5087,
	RegArq2GpioB:    0x5097,
	RegArq2Pt1B:     0x50A7,
	RegArq2Pt2B:     0x50B7,
	RegVideoPipeEn:  0x0160,
	RegVideoPipeSel: 0x0161,
	RegBacktop11:    0x030B,
	RegBacktop12:    0x0313,
	RegBpp8Dbl:      0x031C,
	RegBpp8DblMode:  0x031F,
	RegBpp10Dbl:     0x0329,
	RegBpp10DblMode: 0x032A,
	RegBpp12Dbl:     0x032B,
	RegBpp12DblMode: 0x032C,
	RegMipiPhy0:     0x0330,
	RegMipiPhy2:     0x0332,
	RegMipiPhy3:     0x0333,
	RegMipiPhy4:     0x0334,
	RegMipiPhy5:     0x0335,
	RegMipiPhy6:     0x0336,
	RegDpllResetA:   0x1C00,
	RegDpllResetB:   0x1D00,
}

// RegNames is used by register dumps.
var RegNames = map[RegAlias]string{
	RegReg1:         "REG1",
	RegReg3:         "REG3",
	RegReg4:         "REG4",
	RegDevID:        "DEV_ID",
	RegDevRev:       "DEV_REV",
	RegCtrl0:        "CTRL0",
	RegCtrl3A:       "CTRL3_A",
	RegCtrl3B:       "CTRL3_B",
	RegIntr3:        "INTR3",
	RegIntr5:        "INTR5",
	RegDecErrCntA:   "CNT0",
	RegDecErrCntB:   "CNT1",
	RegIdleErrCntA:  "CNT2",
	RegIdleErrCntB:  "CNT3",
	RegLfStatus01:   "LF_0_1",
	RegLfStatus23:   "LF_2_3",
	RegArq2MainA:    "CC_ARQ2_A",
	RegArq2GpioA:    "GPIO_ARQ2_A",
	RegArq2Pt1A:     "CFGL_IIC_X_ARQ2_A",
	RegArq2Pt2A:     "CFGL_IIC_Y_ARQ2_A",
	RegArq2MainB:    "CC_ARQ2_B",
	RegArq2GpioB:    "GPIO_ARQ2_B",
	RegArq2Pt1B:     "CFGL_IIC_X_ARQ2_B",
	RegArq2Pt2B:     "CFGL_IIC_Y_ARQ2_B",
	RegVideoPipeEn:  "VIDEO_PIPE_EN",
	RegVideoPipeSel: "VIDEO_PIPE_SEL",
	RegBacktop11:    "BACKTOP11",
	RegBacktop12:    "BACKTOP12",
	RegBpp8Dbl:      "BACKTOP21",
	RegBpp8DblMode:  "BACKTOP24",
	RegBpp10Dbl:     "BACKTOP32",
	RegBpp10DblMode: "BACKTOP33",
	RegBpp12Dbl:     "BACKTOP34",
	RegBpp12DblMode: "BACKTOP35",
	RegMipiPhy0:     "MIPI_PHY0",
	RegMipiPhy2:     "MIPI_PHY2",
	RegMipiPhy3:     "MIPI_PHY3",
	RegMipiPhy4:     "MIPI_PHY4",
	RegMipiPhy5:     "MIPI_PHY5",
	RegMipiPhy6:     "MIPI_PHY6",
	RegDpllResetA:   "DPLL_CSI_A",
	RegDpllResetB:   "DPLL_CSI_B",
}

// RegName returns the dump name of a fixed register, or "" for addresses
// outside the named set.
func RegName(addr uint16) string {
	for alias, a := range RegMap {
		if a == addr {
			return RegNames[alias]
		}
	}
	return ""
}

const (
	Reg1MaskRxRate   uint8 = 0x03
	RegMaskDisRemCC  uint8 = 0x10
	DevRevMask       uint8 = 0x0F
	Ctrl0MaskLinkCfg uint8 = 0x03
	Ctrl0BitOneshot  uint8 = 0x20
	Ctrl3BitLocked   uint8 = 0x08
)

const (
	Intr3BitDecErrA  uint8 = 0x01
	Intr3BitDecErrB  uint8 = 0x02
	Intr3BitIdleErrA uint8 = 0x04
	Intr3BitIdleErrB uint8 = 0x08
	Intr3BitLfltInt  uint8 = 0x10
	Intr3BitRemErrA  uint8 = 0x20

	Intr5BitEomErrA uint8 = 0x01
	Intr5BitEomErrB uint8 = 0x02
	Intr5BitMaxRtA  uint8 = 0x08
	Intr5BitMaxRtB  uint8 = 0x10
	Intr5BitRemErrB uint8 = 0x20
)

const (
	Arq2BitMaxRtErr uint8 = 0x80
	Arq2MaskRtCnt   uint8 = 0x7F
)

const (
	VideoPipeEnMask    uint8 = 0x03
	VideoPipeSelEnBase uint8 = 0x10
	VideoPipeSelMaskY  uint8 = 0x07
	VideoPipeSelMaskZ  uint8 = 0x38
	Backtop12BitCSIOut uint8 = 0x02
	MipiPhy0BitCopyEn  uint8 = 0x80
	MipiPhy0BitCopySrc uint8 = 0x40
	MipiPhy2MaskStdby  uint8 = 0xF0
	DpllBitSoftRstN    uint8 = 0x01
)

// Video receiver blocks, one per pipe.
const (
	VideoRxBase   uint16 = 0x0100
	VideoRxStride uint16 = 0x12

	VideoRx0BitLineCRCEn  uint8 = 0x02
	VideoRx0BitLineCRCErr uint8 = 0x80
	VideoRx6MaskStreamID  uint8 = 0x07
	VideoRx8BitVidLock    uint8 = 0x40
	VideoRx8BitBlkLenErr  uint8 = 0x80
)

// MIPI_TX blocks, one per CSI controller.
const (
	MipiTxBase   uint16 = 0x0400
	MipiTxStride uint16 = 0x40

	MipiTx3BitDeskewEn   uint8 = 0x80
	MipiTx3MaskDeskewWid uint8 = 0x07
	MipiTx10MaskLaneCnt  uint8 = 0xC0
	MipiTx10BitCPhyEn    uint8 = 0x20

	MipiTx51BitAlt12 uint8 = 0x01
	MipiTx51BitAlt8  uint8 = 0x02
	MipiTx51BitAlt10 uint8 = 0x04
	MipiTx51BitAlt28 uint8 = 0x10
	MipiTx51MaskAlt  uint8 = 0x17

	MipiTx52BitTunEn    uint8 = 0x01
	MipiTx52MaskTunDest uint8 = 0x06

	// DeskewWidth is written into the deskew width fields when deskew is on.
	DeskewWidth uint8 = 0x07
	// DeskewThreshold is the lane rate in Mbps above which deskew is enabled.
	DeskewThreshold = 1500
)

// Remap table layout. The table of pipe p is displaced by
// RemapDisplacement*(p-1) from pipe Y's.
const (
	RemapEnableBase   uint16 = 0x044B
	RemapSrcDstBase   uint16 = 0x044D
	RemapDstPhyBase   uint16 = 0x046D
	RemapDisplacement uint16 = 0x40
	RemapStride       uint16 = 2
)

const (
	Backtop22Base   uint16 = 0x031E
	Backtop22Stride uint16 = 3

	Backtop22MaskFreq  uint8 = 0x1F
	Backtop22BitFreqEn uint8 = 0x20
	FrequencyStepMbps        = 100
)

const (
	CSIPacketCountBase uint16 = 0x08D0
	PhyPacketCountBase uint16 = 0x08D4
	PacketCountSamples        = 4
)

func videoRx(pipe device.Pipe, offset uint16) uint16 {
	return VideoRxBase + VideoRxStride*uint16(pipe) + offset
}

func mipiTx(ctrl int, offset uint16) uint16 {
	return MipiTxBase + MipiTxStride*uint16(ctrl) + offset
}

func mipiTx3(ctrl int) uint16  { return mipiTx(ctrl, 0x03) }
func mipiTx4(ctrl int) uint16  { return mipiTx(ctrl, 0x04) }
func mipiTx10(ctrl int) uint16 { return mipiTx(ctrl, 0x0A) }
func mipiTx51(ctrl int) uint16 { return mipiTx(ctrl, 0x33) }

// mipiTx52 is indexed by pipe, not by controller.
func mipiTx52(pipe device.Pipe) uint16 { return mipiTx(int(pipe), 0x34) }

func backtop22(phy int) uint16 {
	return Backtop22Base + Backtop22Stride*uint16(phy)
}

func dpllReset(phy int) uint16 {
	if device.PortOf(phy) == 0 {
		return RegMap[RegDpllResetA]
	}
	return RegMap[RegDpllResetB]
}

// laneMap packs the two 2-bit lane assignments of each PHY, two PHYs per register.
var laneMap = gmsl.Packed{Base: 0x0333, Bits: 4, PerReg: 2}

// lanePolarity packs a 3-bit polarity field per PHY, two PHYs per register.
var lanePolarity = gmsl.Packed{Base: 0x0335, Bits: 3, PerReg: 2}

// remapTable returns the addressing of the remap table of a pipe.
type remapTable struct {
	enable gmsl.Packed
	srcDst gmsl.Strided
	dstPhy gmsl.Packed
}

func remapTableOf(pipe device.Pipe) remapTable {
	disp := RemapDisplacement * uint16(pipe-1)
	return remapTable{
		enable: gmsl.Packed{Base: RemapEnableBase + disp, Bits: 1, PerReg: 8},
		srcDst: gmsl.Strided{Base: RemapSrcDstBase + disp, Stride: RemapStride},
		dstPhy: gmsl.Packed{Base: RemapDstPhyBase + disp, Bits: 2, PerReg: 4},
	}
}

func (r remapTable) src(i int) uint16 { return r.srcDst.Addr(i) }
func (r remapTable) dst(i int) uint16 { return r.srcDst.Addr(i) + 1 }

// dtvc encodes a CSI-2 data type and virtual channel pair.
func dtvc(dt, vc uint8) uint8 {
	return (dt & 0x3F) | (vc&0x03)<<6
}

type doublePacking struct {
	enable gmsl.Field
	mode   gmsl.Field
}

type pipeDoublePacking struct {
	bpp8, bpp10, bpp12 doublePacking
}

var doublePackingTable = map[device.Pipe]pipeDoublePacking{
	device.PipeY: {
		bpp8:  doublePacking{gmsl.Field{Addr: 0x031C, Mask: 0x02}, gmsl.Field{Addr: 0x031F, Mask: 0x20}},
		bpp10: doublePacking{gmsl.Field{Addr: 0x0329, Mask: 0x02}, gmsl.Field{Addr: 0x032A, Mask: 0x20}},
		bpp12: doublePacking{gmsl.Field{Addr: 0x032B, Mask: 0x02}, gmsl.Field{Addr: 0x032C, Mask: 0x20}},
	},
	device.PipeZ: {
		bpp8:  doublePacking{gmsl.Field{Addr: 0x031C, Mask: 0x04}, gmsl.Field{Addr: 0x031F, Mask: 0x40}},
		bpp10: doublePacking{gmsl.Field{Addr: 0x0329, Mask: 0x04}, gmsl.Field{Addr: 0x032A, Mask: 0x40}},
		bpp12: doublePacking{gmsl.Field{Addr: 0x032B, Mask: 0x04}, gmsl.Field{Addr: 0x032C, Mask: 0x40}},
	},
}

func streamSelect(pipe device.Pipe) gmsl.Field {
	mask := VideoPipeSelMaskY
	if pipe == device.PipeZ {
		mask = VideoPipeSelMaskZ
	}
	return gmsl.Field{Addr: RegMap[RegVideoPipeSel], Mask: mask}
}

type linkRegs struct {
	rate      gmsl.Field
	disRemCC  gmsl.Field
	locked    gmsl.Field
	decErr    gmsl.Field
	decErrCnt uint16
	idleErr   gmsl.Field
	idleCnt   uint16
	maxRt     gmsl.Field
	remErr    gmsl.Field
	eomErr    gmsl.Field
	arq2      [device.ArqChannelCount]uint16
}

var linkTable = [device.LinkCount]linkRegs{
	device.LinkA: {
		rate:      gmsl.Field{Addr: RegMap[RegReg1], Mask: Reg1MaskRxRate},
		disRemCC:  gmsl.Field{Addr: RegMap[RegReg1], Mask: RegMaskDisRemCC},
		locked:    gmsl.Field{Addr: RegMap[RegCtrl3A], Mask: Ctrl3BitLocked},
		decErr:    gmsl.Field{Addr: RegMap[RegIntr3], Mask: Intr3BitDecErrA},
		decErrCnt: RegMap[RegDecErrCntA],
		idleErr:   gmsl.Field{Addr: RegMap[RegIntr3], Mask: Intr3BitIdleErrA},
		idleCnt:   RegMap[RegIdleErrCntA],
		maxRt:     gmsl.Field{Addr: RegMap[RegIntr5], Mask: Intr5BitMaxRtA},
		remErr:    gmsl.Field{Addr: RegMap[RegIntr3], Mask: Intr3BitRemErrA},
		eomErr:    gmsl.Field{Addr: RegMap[RegIntr5], Mask: Intr5BitEomErrA},
		arq2: [device.ArqChannelCount]uint16{
			RegMap[RegArq2MainA], RegMap[RegArq2GpioA], RegMap[RegArq2Pt1A], RegMap[RegArq2Pt2A],
		},
	},
	device.LinkB: {
		rate:      gmsl.Field{Addr: RegMap[RegReg4], Mask: Reg1MaskRxRate},
		disRemCC:  gmsl.Field{Addr: RegMap[RegReg3], Mask: RegMaskDisRemCC},
		locked:    gmsl.Field{Addr: RegMap[RegCtrl3B], Mask: Ctrl3BitLocked},
		decErr:    gmsl.Field{Addr: RegMap[RegIntr3], Mask: Intr3BitDecErrB},
		decErrCnt: RegMap[RegDecErrCntB],
		idleErr:   gmsl.Field{Addr: RegMap[RegIntr3], Mask: Intr3BitIdleErrB},
		idleCnt:   RegMap[RegIdleErrCntB],
		maxRt:     gmsl.Field{Addr: RegMap[RegIntr5], Mask: Intr5BitMaxRtB},
		remErr:    gmsl.Field{Addr: RegMap[RegIntr5], Mask: Intr5BitRemErrB},
		eomErr:    gmsl.Field{Addr: RegMap[RegIntr5], Mask: Intr5BitEomErrB},
		arq2: [device.ArqChannelCount]uint16{
			RegMap[RegArq2MainB], RegMap[RegArq2GpioB], RegMap[RegArq2Pt1B], RegMap[RegArq2Pt2B],
		},
	},
}

// lineFault locates the 3-bit status of a line-fault monitor. Two monitors
// share a register, one per nibble.
func lineFault(lf int) gmsl.Field {
	return gmsl.Field{
		Addr: RegMap[RegLfStatus01] + uint16(lf/2),
		Mask: 0x07 << (4 * uint(lf%2)),
	}
}

// ResetDefaults returns a register image of a freshly powered part.
func ResetDefaults() map[uint16]uint8 {
	return map[uint16]uint8{
		RegMap[RegDevID]:      0xB6,
		RegMap[RegDevRev]:     0x01,
		RegMap[RegCtrl0]:      0x01,
		RegMap[RegReg1]:       0x02,
		RegMap[RegReg4]:       0x02,
		RegMap[RegBacktop12]:  Backtop12BitCSIOut,
		RegMap[RegDpllResetA]: DpllBitSoftRstN,
		RegMap[RegDpllResetB]: DpllBitSoftRstN,
		RegMap[RegLfStatus01]: 0x22,
		RegMap[RegLfStatus23]: 0x22,
		RegMap[RegMipiPhy3]:   0xE4,
		RegMap[RegMipiPhy4]:   0xE4,
	}
}
