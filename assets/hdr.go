package assets

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const HDR_SIGNATURE = "#?"

// HDRInfo comes from a radiance picture header. The rgbe payload itself
// is the viewer's business.
type HDRInfo struct {
	Width    int
	Height   int
	Format   string
	Exposure float64
}

func init() {
	SetProber(TYPE_HDR, ProbeHDR)
}

func ProbeHDR(d Descriptor, r *io.SectionReader) (interface{}, error) {
	info, err := probeRadianceHeader(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("[assets] Bad radiance file %q: %v", d.Name, err)
	}
	return info, nil
}

func probeRadianceHeader(br *bufio.Reader) (*HDRInfo, error) {
	signature, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("Truncated signature: %v", err)
	}
	if !strings.HasPrefix(signature, HDR_SIGNATURE) {
		return nil, fmt.Errorf("Missing #? signature")
	}

	info := &HDRInfo{Exposure: 1.0}
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("Truncated header: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			value := strings.TrimSpace(line[eq+1:])
			switch key {
			case "FORMAT":
				info.Format = value
			case "EXPOSURE":
				if exp, err := strconv.ParseFloat(value, 64); err == nil {
					info.Exposure *= exp
				}
			}
		}
	}

	resolution, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("Truncated resolution line: %v", err)
	}
	fields := strings.Fields(resolution)
	// standard orientation is "-Y height +X width"
	if len(fields) != 4 || !strings.HasSuffix(fields[0], "Y") || !strings.HasSuffix(fields[2], "X") {
		return nil, fmt.Errorf("Unsupported resolution line %q", strings.TrimSpace(resolution))
	}
	height, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("Bad height %q", fields[1])
	}
	width, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, fmt.Errorf("Bad width %q", fields[3])
	}
	info.Width = width
	info.Height = height

	return info, nil
}
