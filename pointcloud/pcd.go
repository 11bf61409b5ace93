package pointcloud

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// PCDType is the format of a pcd file.
type PCDType int

const (
	// PCDAscii ascii format for pcd.
	PCDAscii PCDType = 0
	// PCDBinary binary format for pcd.
	PCDBinary PCDType = 1
)

// ToPCD writes out a point cloud in PCD format. Positions are written in
// meters; when the cloud has color, a packed rgb field is appended to each
// point.
func ToPCD(cloud *PointCloud, out io.Writer, outputType PCDType) error {
	var err error

	_, err = fmt.Fprintf(out, "VERSION .7\n")
	if err != nil {
		return err
	}
	switch cloud.MetaData().HasColor {
	case true:
		_, err = fmt.Fprintf(out, "FIELDS x y z rgb\n"+
			"SIZE 4 4 4 4\n"+
			"TYPE F F F I\n"+
			"COUNT 1 1 1 1\n")
	case false:
		_, err = fmt.Fprintf(out, "FIELDS x y z\n"+
			"SIZE 4 4 4\n"+
			"TYPE F F F\n"+
			"COUNT 1 1 1\n")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "WIDTH %d\n"+
		"HEIGHT %d\n"+
		"VIEWPOINT 0 0 0 1 0 0 0\n"+
		"POINTS %d\n",
		cloud.Size(),
		1,
		cloud.Size())
	if err != nil {
		return err
	}

	switch outputType {
	case PCDBinary:
		_, err = fmt.Fprintf(out, "DATA binary\n")
	case PCDAscii:
		_, err = fmt.Fprintf(out, "DATA ascii\n")
	default:
		return errors.Errorf("unknown pcd type %d", outputType)
	}
	if err != nil {
		return err
	}
	return writePCDData(cloud, out, outputType)
}

// WriteToPCDFile writes the point cloud out to a PCD file.
func WriteToPCDFile(cloud *PointCloud, fn string, outputType PCDType) (err error) {
	//nolint:gosec
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return ToPCD(cloud, f, outputType)
}

func colorToPCDInt(pt Data) int {
	if pt == nil || !pt.HasColor() {
		return 255 << 16
	}

	r, g, b := pt.RGB255()
	x := 0
	x |= int(r) << 16
	x |= int(g) << 8
	x |= int(b) << 0
	return x
}

func writePCDData(cloud *PointCloud, out io.Writer, pcdtype PCDType) error {
	var err error
	cloud.Iterate(func(pos r3.Vector, d Data) bool {
		switch cloud.MetaData().HasColor {
		case true:
			c := colorToPCDInt(d)
			switch pcdtype {
			case PCDBinary:
				buf := make([]byte, 16)
				binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(pos.X)))
				binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(pos.Y)))
				binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(pos.Z)))
				binary.LittleEndian.PutUint32(buf[12:], uint32(c))
				_, err = out.Write(buf)
			case PCDAscii:
				_, err = fmt.Fprintf(out, "%f %f %f %d\n", pos.X, pos.Y, pos.Z, c)
			}
		case false:
			switch pcdtype {
			case PCDBinary:
				buf := make([]byte, 12)
				binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(pos.X)))
				binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(pos.Y)))
				binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(pos.Z)))
				_, err = out.Write(buf)
			case PCDAscii:
				_, err = fmt.Fprintf(out, "%f %f %f\n", pos.X, pos.Y, pos.Z)
			}
		}
		return err == nil
	})
	return err
}
