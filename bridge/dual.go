package bridge

// Dual is the master and slave pair. The two instances share nothing.
type Dual struct {
	Master *Instance
	Slave  *Instance
}

// NewDual creates both instances. Empty names default to "m68k" and "s68k".
func NewDual(master, slave Config) *Dual {
	if master.Name == "" {
		master.Name = "m68k"
	}
	if slave.Name == "" {
		slave.Name = "s68k"
	}
	return &Dual{
		Master: NewInstance(master),
		Slave:  NewInstance(slave),
	}
}

// Init initialises both instances.
func (d *Dual) Init() {
	d.Master.Init()
	d.Slave.Init()
}

// PulseReset resets both CPUs.
func (d *Dual) PulseReset() {
	d.Master.PulseReset()
	d.Slave.PulseReset()
}

// Run runs the master and then the slave, returning the cycles each used.
func (d *Dual) Run(masterBudget, slaveBudget int) (int, int) {
	return d.Master.Run(masterBudget), d.Slave.Run(slaveBudget)
}

// Instance returns the instance with the given name, or nil.
func (d *Dual) Instance(name string) *Instance {
	switch name {
	case d.Master.name:
		return d.Master
	case d.Slave.name:
		return d.Slave
	}
	return nil
}
