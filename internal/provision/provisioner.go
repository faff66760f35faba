// Package provision drives one provisioning run from location validation to
// remote disk formatting.
//
// The run is strictly sequential. Validation failures in the early steps are
// fatal and leave nothing behind; a failure in the disk-attach loop leaves the
// disks created so far attached, and the final formatting call is a single
// best-effort remote execution.
package provision

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-logr/logr"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	cryptossh "golang.org/x/crypto/ssh"

	"github.com/ShaneCastle/vmdisk/internal/config"
	"github.com/ShaneCastle/vmdisk/internal/credentials"
	"github.com/ShaneCastle/vmdisk/internal/disk"
	"github.com/ShaneCastle/vmdisk/internal/image"
	hcloudp "github.com/ShaneCastle/vmdisk/internal/platform/hcloud"
	sshclient "github.com/ShaneCastle/vmdisk/internal/platform/ssh"
	"github.com/ShaneCastle/vmdisk/internal/trust"
	"github.com/ShaneCastle/vmdisk/internal/util/retry"
)

const (
	sshPort = "22"

	hostKeyScanTimeout = 10 * time.Second
	// sshd may come up well after the server reports running.
	hostKeyScanRetries = 30
	hostKeyScanDelay   = 5 * time.Second
)

var (
	// ErrLocationRequired is returned when a network or VM must be created
	// and no location was supplied.
	ErrLocationRequired = errors.New("location is required when the service network or VM does not exist yet")

	// ErrLocationMismatch is returned when the supplied location conflicts
	// with the location of the already existing VM.
	ErrLocationMismatch = errors.New("requested location conflicts with the existing VM's location")
)

// Request describes one provisioning run.
type Request struct {
	// Service names the hosting network the VM is placed in.
	Service string
	// VM names the target server. Created if absent, extended if present.
	VM string
	// Location is the geographic region. Required only when the service
	// network or the VM has to be created.
	Location string
	// DiskSizeGB is applied to every disk created in this run.
	DiskSizeGB int
	// DiskCount is the number of disks to add in this run.
	DiskCount int
}

// Result summarizes a completed run.
type Result struct {
	ServerName string
	ServerIP   string
	Location   string
	Image      image.Image
	// Created reports whether the VM was created by this run.
	Created bool
	Slots   []int
	Volumes []string
	Format  disk.Report
}

// RemoteRunner executes a command on the provisioned VM.
type RemoteRunner interface {
	Execute(ctx context.Context, command string) (string, error)
}

// RunnerFactory builds a RemoteRunner once the VM address, credentials and
// host key verification are known.
type RunnerFactory func(host string, creds *credentials.Credentials, callback cryptossh.HostKeyCallback) (RemoteRunner, error)

// HostKeyScanner captures the host key a server presents.
type HostKeyScanner func(ctx context.Context, addr string, timeout time.Duration) (cryptossh.PublicKey, error)

// TrustStore records trusted host keys.
type TrustStore interface {
	Add(addr string, key cryptossh.PublicKey) (bool, error)
	HostKeyCallback() (cryptossh.HostKeyCallback, error)
}

// Deps collects the collaborators of a Provisioner.
type Deps struct {
	Infra       hcloudp.InfrastructureManager
	Credentials credentials.Supplier
	Trust       TrustStore
	Config      *config.Config
	Timeouts    *config.Timeouts
	Logger      logr.Logger

	// Scan and NewRunner default to the SSH-backed implementations and are
	// overridable for tests.
	Scan      HostKeyScanner
	NewRunner RunnerFactory
}

// Provisioner runs the provisioning state machine.
type Provisioner struct {
	infra    hcloudp.InfrastructureManager
	creds    credentials.Supplier
	trust    TrustStore
	cfg      *config.Config
	timeouts *config.Timeouts
	log      logr.Logger

	scan      HostKeyScanner
	newRunner RunnerFactory
}

// New creates a Provisioner. Nil Scan and NewRunner fall back to the real
// SSH implementations.
func New(deps Deps) *Provisioner {
	p := &Provisioner{
		infra:     deps.Infra,
		creds:     deps.Credentials,
		trust:     deps.Trust,
		cfg:       deps.Config,
		timeouts:  deps.Timeouts,
		log:       deps.Logger,
		scan:      deps.Scan,
		newRunner: deps.NewRunner,
	}
	if p.scan == nil {
		p.scan = trust.ScanHostKey
	}
	if p.newRunner == nil {
		p.newRunner = sshRunner
	}
	return p
}

// sshRunner is the production RunnerFactory.
func sshRunner(host string, creds *credentials.Credentials, callback cryptossh.HostKeyCallback) (RemoteRunner, error) {
	return sshclient.NewClient(&sshclient.Config{
		Host:            host,
		User:            creds.User,
		PrivateKey:      creds.PrivateKey,
		HostKeyCallback: callback,
	})
}

// Run executes one provisioning run.
func (p *Provisioner) Run(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	location, server, err := p.checkLocation(ctx, req)
	if err != nil {
		return nil, err
	}

	img, err := p.resolveImage(ctx)
	if err != nil {
		return nil, err
	}
	p.log.Info("Resolved image", "id", img.ID, "family", img.Family, "published", img.Published)

	network, err := p.ensureNetwork(ctx, req, location)
	if err != nil {
		return nil, err
	}

	creds, err := p.creds.Credentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain SSH credentials: %w", err)
	}

	result := &Result{ServerName: req.VM, Image: img}

	server, result.Created, err = p.ensureServer(ctx, req, server, img, network, creds)
	if err != nil {
		return nil, err
	}
	result.Location = serverLocation(server)

	result.Slots, result.Volumes, err = p.attachDisks(ctx, req, server, result.Created)
	if err != nil {
		return nil, err
	}

	result.ServerIP, err = p.infra.GetServerIP(ctx, req.VM)
	if err != nil {
		return nil, err
	}

	callback, err := p.installHostKey(ctx, result.ServerIP)
	if err != nil {
		return nil, err
	}

	result.Format, err = p.formatDisks(ctx, result.ServerIP, creds, callback)
	if err != nil {
		return result, err
	}

	p.log.Info("Provisioning complete", "vm", req.VM, "ip", result.ServerIP, "disks", len(result.Slots))
	return result, nil
}

func validateRequest(req Request) error {
	if req.Service == "" {
		return fmt.Errorf("service name is required")
	}
	if req.VM == "" {
		return fmt.Errorf("vm name is required")
	}
	if req.DiskCount < 1 {
		return fmt.Errorf("disk count must be at least 1, got %d", req.DiskCount)
	}
	// 10 GB is the provider minimum volume size.
	if req.DiskSizeGB < 10 {
		return fmt.Errorf("disk size must be at least 10 GB, got %d", req.DiskSizeGB)
	}
	return nil
}

// checkLocation validates the requested location against the provider catalog
// and against the existing VM, if any. The returned location is nil when none
// was requested.
func (p *Provisioner) checkLocation(ctx context.Context, req Request) (*hcloud.Location, *hcloud.Server, error) {
	var location *hcloud.Location
	if req.Location != "" {
		var err error
		location, err = p.infra.GetLocation(ctx, req.Location)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to look up location %s: %w", req.Location, err)
		}
		if location == nil {
			return nil, nil, fmt.Errorf("unknown location: %s", req.Location)
		}
	}

	server, err := p.infra.GetServerByName(ctx, req.VM)
	if err != nil {
		return nil, nil, err
	}
	if server != nil && req.Location != "" && serverLocation(server) != req.Location {
		return nil, nil, fmt.Errorf("vm %s is in %s, not %s: %w",
			req.VM, serverLocation(server), req.Location, ErrLocationMismatch)
	}

	return location, server, nil
}

// resolveImage picks the newest catalog image matching the configured filter.
func (p *Provisioner) resolveImage(ctx context.Context) (image.Image, error) {
	catalog, err := p.infra.ListImages(ctx)
	if err != nil {
		return image.Image{}, fmt.Errorf("failed to list image catalog: %w", err)
	}

	img, err := image.ResolveLatest(catalog, p.cfg.ImageFilter, p.cfg.OfficialImagesOnly)
	if err != nil {
		return image.Image{}, fmt.Errorf("failed to resolve image for filter %q: %w", p.cfg.ImageFilter, err)
	}
	return img, nil
}

// ensureNetwork gets or creates the service network. An existing network with
// a conflicting zone is a warning, not an error.
func (p *Provisioner) ensureNetwork(ctx context.Context, req Request, location *hcloud.Location) (*hcloud.Network, error) {
	network, err := p.infra.GetNetwork(ctx, req.Service)
	if err != nil {
		return nil, err
	}

	if network == nil {
		if location == nil {
			return nil, fmt.Errorf("service network %s does not exist: %w", req.Service, ErrLocationRequired)
		}

		p.log.Info("Creating service network", "name", req.Service, "zone", location.NetworkZone)
		network, err = p.infra.EnsureNetwork(ctx, req.Service, p.cfg.NetworkIPRange, map[string]string{
			hcloudp.LabelService: req.Service,
		})
		if err != nil {
			return nil, err
		}
		if err := p.infra.EnsureSubnet(ctx, network, p.cfg.SubnetIPRange, string(location.NetworkZone)); err != nil {
			return nil, err
		}
		return network, nil
	}

	if location != nil {
		for _, subnet := range network.Subnets {
			if subnet.NetworkZone != location.NetworkZone {
				p.log.Info("Warning: service network is in a different zone, using existing network",
					"network", req.Service, "networkZone", subnet.NetworkZone, "requestedZone", location.NetworkZone)
				break
			}
		}
	}
	return network, nil
}

// ensureServer creates the VM when it does not exist yet. It reports whether
// a create happened.
func (p *Provisioner) ensureServer(ctx context.Context, req Request, server *hcloud.Server, img image.Image, network *hcloud.Network, creds *credentials.Credentials) (*hcloud.Server, bool, error) {
	if server != nil {
		p.log.Info("VM exists, extending", "vm", req.VM)
		return server, false, nil
	}

	if req.Location == "" {
		return nil, false, fmt.Errorf("vm %s does not exist: %w", req.VM, ErrLocationRequired)
	}

	sshKey, err := p.infra.EnsureSSHKey(ctx, req.VM+"-admin", creds.PublicKey, map[string]string{
		hcloudp.LabelService: req.Service,
		hcloudp.LabelVM:      req.VM,
	})
	if err != nil {
		return nil, false, err
	}

	p.log.Info("Creating VM", "vm", req.VM, "type", p.cfg.ServerType, "image", img.ID, "location", req.Location)
	server, err = p.infra.CreateServer(ctx, hcloudp.ServerCreateOpts{
		Name:       req.VM,
		ImageID:    img.ID,
		ServerType: p.cfg.ServerType,
		Location:   req.Location,
		NetworkID:  network.ID,
		SSHKeyID:   sshKey.ID,
		Labels: map[string]string{
			hcloudp.LabelService: req.Service,
			hcloudp.LabelVM:      req.VM,
		},
	})
	if err != nil {
		return nil, false, err
	}
	return server, true, nil
}

// attachDisks allocates slot numbers and creates and attaches one volume per
// slot, sequentially. A failure mid-loop leaves earlier disks attached.
func (p *Provisioner) attachDisks(ctx context.Context, req Request, server *hcloud.Server, created bool) ([]int, []string, error) {
	var existing []int
	if !created {
		volumes, err := p.infra.ListServerVolumes(ctx, req.VM)
		if err != nil {
			return nil, nil, err
		}
		for _, volume := range volumes {
			if slot, ok := hcloudp.VolumeSlot(volume); ok {
				existing = append(existing, slot)
			}
		}
	}

	slots := disk.AllocateSlots(existing, req.DiskCount)
	p.log.Info("Allocated disk slots", "vm", req.VM, "existing", existing, "new", slots)

	volumes := make([]string, 0, len(slots))
	for _, slot := range slots {
		name := hcloudp.VolumeName(req.VM, slot)
		volume, err := p.infra.CreateVolume(ctx, hcloudp.VolumeCreateOpts{
			Name:     name,
			SizeGB:   req.DiskSizeGB,
			Location: serverLocation(server),
			Labels:   hcloudp.VolumeLabels(req.Service, req.VM, slot),
		})
		if err != nil {
			return slots, volumes, fmt.Errorf("failed to create disk at slot %d: %w", slot, err)
		}
		if err := p.infra.AttachVolume(ctx, volume, server); err != nil {
			return slots, volumes, fmt.Errorf("failed to attach disk at slot %d: %w", slot, err)
		}
		volumes = append(volumes, name)
	}

	return slots, volumes, nil
}

// installHostKey scans the VM's host key and records it in the trust store.
// A key that is already trusted is left untouched.
func (p *Provisioner) installHostKey(ctx context.Context, ip string) (cryptossh.HostKeyCallback, error) {
	addr := net.JoinHostPort(ip, sshPort)

	var key cryptossh.PublicKey
	err := retry.Do(ctx, func() error {
		var scanErr error
		key, scanErr = p.scan(ctx, addr, hostKeyScanTimeout)
		return scanErr
	},
		retry.WithMaxRetries(hostKeyScanRetries),
		retry.WithInitialDelay(hostKeyScanDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain host key of %s: %w", addr, err)
	}

	added, err := p.trust.Add(addr, key)
	if err != nil {
		return nil, fmt.Errorf("failed to install host key of %s: %w", addr, err)
	}
	if added {
		p.log.Info("Installed host key into trust store", "addr", addr, "type", key.Type())
	} else {
		p.log.Info("Host key already trusted", "addr", addr)
	}

	return p.trust.HostKeyCallback()
}

// formatDisks runs the guest-side initialization routine once, best effort.
func (p *Provisioner) formatDisks(ctx context.Context, ip string, creds *credentials.Credentials, callback cryptossh.HostKeyCallback) (disk.Report, error) {
	command, err := disk.FormatCommand(p.cfg.Filesystem)
	if err != nil {
		return disk.Report{}, err
	}

	runner, err := p.newRunner(ip, creds, callback)
	if err != nil {
		return disk.Report{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeouts.RemoteFormat)
	defer cancel()

	p.log.Info("Formatting raw disks", "ip", ip, "filesystem", p.cfg.Filesystem)
	output, err := runner.Execute(ctx, command)
	report := disk.ParseReport(output)
	if err != nil {
		return report, fmt.Errorf("remote disk formatting failed: %w", err)
	}

	p.log.Info("Formatted disks", "initialized", report.Initialized)
	return report, nil
}

func serverLocation(server *hcloud.Server) string {
	if server == nil || server.Datacenter == nil || server.Datacenter.Location == nil {
		return ""
	}
	return server.Datacenter.Location.Name
}
